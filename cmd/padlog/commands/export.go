package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/remotegamepad/remotegamepad-go/pkg/log"
)

// record is the JSON form of a journal event.
type record struct {
	Timestamp time.Time         `json:"timestamp"`
	Topic     string            `json:"topic"`
	Category  string            `json:"category"`
	ClientID  string            `json:"client_id,omitempty"`
	DeviceID  int               `json:"gamepad_id,omitempty"`
	Client    *log.ClientEvent  `json:"client,omitempty"`
	Device    *log.DeviceEvent  `json:"device,omitempty"`
	Input     *log.InputEvent   `json:"input,omitempty"`
	Cleared   *log.ClearedEvent `json:"cleared,omitempty"`
}

func toRecord(e log.Event) record {
	return record{
		Timestamp: e.Timestamp.UTC(),
		Topic:     e.Topic,
		Category:  e.Category.String(),
		ClientID:  e.ClientID,
		DeviceID:  e.DeviceID,
		Client:    e.Client,
		Device:    e.Device,
		Input:     e.Input,
		Cleared:   e.Cleared,
	}
}

// RunExport exports the journal in the given format to output, or to
// stdout when output is empty.
func RunExport(path, format, output string, filter log.Filter) error {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer reader.Close()

	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	return export(reader, format, w)
}

func export(reader *log.Reader, format string, w io.Writer) error {
	switch format {
	case "jsonl":
		return exportJSONL(reader, w)
	case "csv":
		return exportCSV(reader, w)
	default:
		return fmt.Errorf("unknown format: %s (supported: jsonl, csv)", format)
	}
}

func exportJSONL(reader *log.Reader, w io.Writer) error {
	encoder := json.NewEncoder(w)
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if err := encoder.Encode(toRecord(event)); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
	}
	return nil
}

func exportCSV(reader *log.Reader, w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"timestamp", "topic", "category", "client_id", "gamepad_id", "status", "control", "value"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		var status, control, value string
		switch {
		case event.Client != nil:
			status = event.Client.Status
		case event.Input != nil:
			control = event.Input.Control
			value = strconv.FormatFloat(event.Input.Value, 'f', -1, 64)
		}
		deviceID := ""
		if event.DeviceID != 0 {
			deviceID = strconv.Itoa(event.DeviceID)
		}

		row := []string{
			event.Timestamp.UTC().Format(timeFormat),
			event.Topic,
			event.Category.String(),
			event.ClientID,
			deviceID,
			status,
			control,
			value,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	return nil
}
