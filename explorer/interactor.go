package explorer

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/zeu5/rl-replay/replay"
)

// Runs the main interactive loop. Returns when the user quits or the input
// is exhausted.
func (e *Explorer) Interact() {
	fmt.Fprintf(e.out, "%s", e.header())
	for {
		fmt.Fprintf(e.out, "%s", e.prompt())

		optionS, err := e.readLine()
		if err == io.EOF {
			return
		} else if err != nil {
			fmt.Fprintln(e.out, "Invalid input! Try again")
			continue
		}
		option, err := strconv.Atoi(optionS)
		if err != nil {
			fmt.Fprintln(e.out, "Invalid input! Try again")
			continue
		}
		fmt.Fprintln(e.out, "------------------------------------")
		switch option {
		case 1:
			fmt.Fprintf(e.out, "%s", e.listEpisodes())
		case 2:
			fmt.Fprintf(e.out, "%s", e.rewardCurve())
		case 3:
			fmt.Fprintf(e.out, "Enter episode number (1-%d): ", e.Log.Len())
			episodeS, err := e.readLine()
			if err == io.EOF {
				return
			} else if err != nil {
				fmt.Fprintln(e.out, "Invalid input! Try again")
				continue
			}
			episodeNo, err := strconv.Atoi(episodeS)
			if err != nil {
				fmt.Fprintln(e.out, "Invalid input! Not a number. Try again")
				continue
			}
			if episodeNo < 1 || episodeNo > e.Log.Len() {
				fmt.Fprintf(e.out, "Invalid input! Should be between (1-%d). Try again\n", e.Log.Len())
				continue
			}
			if !e.interactEpisode(episodeNo - 1) {
				return
			}
		case 4:
			fmt.Fprintln(e.out, "Quitting! Thank you")
			return
		default:
			fmt.Fprintln(e.out, "Wrong choice! Try again!")
		}
	}
}

// interactEpisode walks the steps of the episode at the given position.
// Returns false when the input ran out.
func (e *Explorer) interactEpisode(position int) bool {
	view := replay.Derive(e.Log, replay.Cursor{Episode: position}, e.Variant)
	if view.Steps == 0 {
		fmt.Fprintln(e.out, "Empty episode!")
		return true
	}
	e.cursor = view.Cursor
	fmt.Fprintln(e.out, "---------------------------------------------")
	for {
		view = e.View()
		e.cursor = view.Cursor
		fmt.Fprintf(e.out, "%s", e.renderStep(view))
		fmt.Fprintf(e.out, "%s", e.episodePrompt())
		option, err := e.readLine()
		if err == io.EOF {
			return false
		} else if err != nil {
			fmt.Fprintln(e.out, "Invalid input! Try again")
			continue
		}
		fmt.Fprintln(e.out, "---------------------------------------------")
		switch option {
		case "s":
			if e.cursor.Step == view.Steps-1 {
				fmt.Fprintln(e.out, "No more steps!")
				continue
			}
			e.cursor.Step += 1
		case "p":
			if e.cursor.Step == 0 {
				fmt.Fprintln(e.out, "No more steps!")
				continue
			}
			e.cursor.Step -= 1
		case "f":
			e.cursor.Step = 0
		case "l":
			e.cursor.Step = view.Steps - 1
		case "d":
			fmt.Fprintf(e.out, "%s", e.renderQValues(view))
		case "g":
			fmt.Fprintf(e.out, "%s", e.renderGrid(view))
		case "q":
			return true
		default:
			fmt.Fprintln(e.out, "Invalid option! Try again.")
		}
	}
}

func (e *Explorer) readLine() (string, error) {
	line, err := e.reader.ReadString('\n')
	if err == io.EOF && line != "" {
		err = nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (e *Explorer) header() string {
	return fmt.Sprintf(`
Welcome to the replay explorer! (%s, %d episodes)
	`, e.Variant.Name, e.Log.Len())
}

func (e *Explorer) prompt() string {
	return `
------------------------------------
Select one of the following options:
1. List episodes
2. Show reward curve
3. Explore an episode
4. Quit
Enter your choice: `
}

func (e *Explorer) episodePrompt() string {
	return `
---------------------------------------------
Step(s) Prev(p) First(f) Last(l) QValues(d) Grid(g) Quit(q): `
}
