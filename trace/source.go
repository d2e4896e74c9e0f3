package trace

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/zeu5/rl-replay/types"
)

// Source of a trace log. A log is loaded once and then only read.
type Source interface {
	Load(context.Context) (*types.TraceLog, error)
	Close() error
}

// Open the source named by location: a redis:// or rediss:// URL (the log
// is then read from key) or a file path.
func Open(location, key string, logger *logrus.Logger) (Source, error) {
	if strings.HasPrefix(location, "redis://") || strings.HasPrefix(location, "rediss://") {
		return NewRedisSource(location, key, logger)
	}
	return NewFileSource(location, logger), nil
}

type FileSource struct {
	Path   string
	logger *logrus.Logger
}

func NewFileSource(path string, logger *logrus.Logger) *FileSource {
	return &FileSource{Path: path, logger: logger}
}

func (f *FileSource) Load(ctx context.Context) (*types.TraceLog, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	l, err := parseNamed(f.Path, data)
	if err != nil {
		return nil, fmt.Errorf("error loading %s: %w", f.Path, err)
	}
	l.report(f.logger.WithField("path", f.Path))
	return l.log, nil
}

func (f *FileSource) Close() error {
	return nil
}

// the subset of the redis client used to read a log
type redisGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// RedisSource reads a trace log stored as a single value under Key
type RedisSource struct {
	Key    string
	client redisGetter
	closer func() error
	logger *logrus.Logger
}

func NewRedisSource(url, key string, logger *logrus.Logger) (*RedisSource, error) {
	if key == "" {
		return nil, errors.New("a redis key is required to read the trace log")
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("error parsing redis url: %w", err)
	}
	client := redis.NewClient(opts)
	return &RedisSource{
		Key:    key,
		client: client,
		closer: client.Close,
		logger: logger,
	}, nil
}

func (r *RedisSource) Load(ctx context.Context) (*types.TraceLog, error) {
	data, err := r.client.Get(ctx, r.Key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: no value for key %s", ErrEmptySource, r.Key)
	} else if err != nil {
		return nil, fmt.Errorf("error reading key %s: %w", r.Key, err)
	}
	l, err := parseNamed(r.Key, data)
	if err != nil {
		return nil, fmt.Errorf("error loading key %s: %w", r.Key, err)
	}
	l.report(r.logger.WithField("key", r.Key))
	return l.log, nil
}

func (r *RedisSource) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer()
}

// parseNamed picks JSONL for .jsonl names and a JSON array otherwise
func parseNamed(name string, data []byte) (loaded, error) {
	if strings.HasSuffix(name, ".jsonl") {
		return parseLines(bytes.NewReader(data))
	}
	return parseArray(data)
}

func (l loaded) report(entry *logrus.Entry) {
	entry = entry.WithFields(logrus.Fields{
		"format":   l.format,
		"episodes": l.log.Len(),
		"steps":    l.log.Steps(),
	})
	if l.reordered {
		entry.Warn("episodes were not logged in index order, sorted them by index")
	}
	entry.Info("loaded trace log")
}
