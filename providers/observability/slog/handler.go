package slog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"sync"
)

// Handler is a slog.Handler writing compact or JSON lines. Attributes are
// flattened, group names become dotted key prefixes and keys are written in
// sorted order.
type Handler struct {
	format Format
	level  slog.Leveler
	mu     *sync.Mutex
	out    io.Writer
	attrs  []slog.Attr
	groups []string
}

// HandlerOptions configures a Handler.
type HandlerOptions struct {
	Format Format
	Level  slog.Leveler
	Output io.Writer
}

// NewHandler creates a Handler. Zero options mean compact output at info
// level on os.Stderr.
func NewHandler(opts *HandlerOptions) *Handler {
	if opts == nil {
		opts = &HandlerOptions{}
	}

	h := &Handler{
		format: opts.Format,
		level:  opts.Level,
		mu:     &sync.Mutex{},
		out:    opts.Output,
	}
	if h.format == "" {
		h.format = FormatCompact
	}
	if h.level == nil {
		h.level = slog.LevelInfo
	}
	if h.out == nil {
		h.out = os.Stderr
	}
	return h
}

// NewLoggerFromEnv returns a logger writing to w with the level and format
// taken from the environment.
func NewLoggerFromEnv(w io.Writer) *slog.Logger {
	return slog.New(NewHandler(&HandlerOptions{
		Format: GetFormatFromEnv(),
		Level:  GetLogLevelFromEnv(),
		Output: w,
	}))
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	fields := make(map[string]any, len(h.attrs)+r.NumAttrs())
	for _, attr := range h.attrs {
		addAttr(fields, "", attr)
	}
	prefix := groupPrefix(h.groups)
	r.Attrs(func(attr slog.Attr) bool {
		addAttr(fields, prefix, attr)
		return true
	})

	var line []byte
	var err error
	if h.format == FormatJSON {
		line, err = h.jsonLine(r, fields)
	} else {
		line, err = h.compactLine(r, fields)
	}
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err = h.out.Write(line)
	return err
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	clone := *h
	prefix := groupPrefix(h.groups)
	clone.attrs = slices.Clone(h.attrs)
	for _, attr := range attrs {
		attr.Key = prefix + attr.Key
		clone.attrs = append(clone.attrs, attr)
	}
	return &clone
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = append(slices.Clone(h.groups), name)
	return &clone
}

func (h *Handler) compactLine(r slog.Record, fields map[string]any) ([]byte, error) {
	var b strings.Builder
	b.WriteString(r.Time.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, " %5s ", r.Level.String())
	b.WriteString(r.Message)

	if len(fields) > 0 {
		encoded, err := json.Marshal(fields)
		if err != nil {
			return nil, err
		}
		b.WriteByte(' ')
		b.Write(encoded)
	}
	b.WriteByte('\n')
	return []byte(b.String()), nil
}

func (h *Handler) jsonLine(r slog.Record, fields map[string]any) ([]byte, error) {
	fields["time"] = r.Time.Format("2006-01-02T15:04:05.000Z07:00")
	fields["level"] = r.Level.String()
	fields["msg"] = r.Message

	encoded, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	return append(encoded, '\n'), nil
}

func groupPrefix(groups []string) string {
	if len(groups) == 0 {
		return ""
	}
	return strings.Join(groups, ".") + "."
}

// addAttr stores attr under prefix+key, expanding group values.
func addAttr(fields map[string]any, prefix string, attr slog.Attr) {
	value := attr.Value.Resolve()
	if value.Kind() == slog.KindGroup {
		inner := prefix
		if attr.Key != "" {
			inner += attr.Key + "."
		}
		for _, member := range value.Group() {
			addAttr(fields, inner, member)
		}
		return
	}
	if attr.Key == "" {
		return
	}

	switch value.Kind() {
	case slog.KindDuration:
		fields[prefix+attr.Key] = value.Duration().String()
	case slog.KindTime:
		fields[prefix+attr.Key] = value.Time().Format("2006-01-02T15:04:05.000Z07:00")
	case slog.KindAny:
		if err, ok := value.Any().(error); ok {
			fields[prefix+attr.Key] = err.Error()
			return
		}
		fields[prefix+attr.Key] = value.Any()
	default:
		fields[prefix+attr.Key] = value.Any()
	}
}
