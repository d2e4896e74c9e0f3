package util

import (
	"os"
	"strings"
)

// takes a save path and a variable number of strings and writes them to file separated by new lines,
// replacing any previous content
func WriteToFile(savePath string, content ...string) error {
	singleString := strings.Join(content, "\n")
	if len(content) > 0 {
		singleString += "\n"
	}
	return os.WriteFile(savePath, []byte(singleString), 0644)
}

func AppendToFile(savePath string, content ...string) error {
	f, err := os.OpenFile(savePath, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		return err
	}

	defer f.Close()

	for _, s := range content {
		if _, err = f.WriteString(s + "\n"); err != nil {
			return err
		}
	}
	return nil
}
