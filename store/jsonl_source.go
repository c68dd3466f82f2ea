package store

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/goccy/go-json"

	"sitecms/api/logging"
	"sitecms/api/models"
)

// jsonlRecord mirrors models.Event with the timestamp kept as text, so a bad
// timestamp marks one record malformed instead of failing the whole file.
type jsonlRecord struct {
	ID           int64  `json:"id"`
	Action       string `json:"action"`
	ResourceType string `json:"resource_type"`
	ResourceID   *int64 `json:"resource_id"`
	UserID       *int64 `json:"user_id"`
	IPAddress    string `json:"ip_address"`
	UserAgent    string `json:"user_agent"`
	OccurredAt   string `json:"occurred_at"`
}

// JSONLSource serves events from a JSON-lines export of the activity log.
type JSONLSource struct {
	events []models.Event
}

func OpenJSONLSource(path string) (*JSONLSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open event file: %w", err)
	}
	defer f.Close()
	return ReadJSONL(f)
}

// ReadJSONL parses one event per line. Blank lines are ignored; lines that are
// not JSON objects become zero events so they are counted as malformed.
func ReadJSONL(r io.Reader) (*JSONLSource, error) {
	src := &JSONLSource{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		b := scanner.Bytes()
		if len(b) == 0 {
			continue
		}
		var rec jsonlRecord
		if err := json.Unmarshal(b, &rec); err != nil {
			logging.Warn().Err(err).Int("line", line).Msg("unreadable event line")
			src.events = append(src.events, models.Event{})
			continue
		}
		ev := models.Event{
			ID:           rec.ID,
			Action:       rec.Action,
			ResourceType: rec.ResourceType,
			ResourceID:   rec.ResourceID,
			UserID:       rec.UserID,
			IPAddress:    rec.IPAddress,
			UserAgent:    rec.UserAgent,
		}
		if t, err := time.Parse(time.RFC3339Nano, rec.OccurredAt); err == nil {
			ev.OccurredAt = t
		}
		src.events = append(src.events, ev)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read event file: %w", err)
	}
	return src, nil
}

// FetchEvents returns the loaded events inside [start, end]. Malformed events
// are always returned so they get counted.
func (s *JSONLSource) FetchEvents(ctx context.Context, start, end time.Time) ([]models.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]models.Event, 0, len(s.events))
	for _, e := range s.events {
		if e.OccurredAt.IsZero() || (!e.OccurredAt.Before(start) && !e.OccurredAt.After(end)) {
			out = append(out, e)
		}
	}
	return out, nil
}

// Len is the number of records read, malformed ones included.
func (s *JSONLSource) Len() int { return len(s.events) }
