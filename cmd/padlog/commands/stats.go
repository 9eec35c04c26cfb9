package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/remotegamepad/remotegamepad-go/pkg/log"
)

// Stats holds aggregate statistics about a journal.
type Stats struct {
	TotalEvents      int
	EventsByCategory map[log.Category]int
	EventsByTopic    map[string]int
	Clients          map[string]*ClientStats
	Devices          map[int]int
	TimeRange        struct {
		Start time.Time
		End   time.Time
	}
}

// ClientStats holds statistics for a single client.
type ClientStats struct {
	FirstSeen   time.Time
	LastSeen    time.Time
	Events      int
	Inputs      int
	Origin      string
	ProfileName string
	DeviceID    int
}

// RunStats analyzes the journal and prints statistics.
func RunStats(path string, filter log.Filter, w io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByCategory: make(map[log.Category]int),
		EventsByTopic:    make(map[string]int),
		Clients:          make(map[string]*ClientStats),
		Devices:          make(map[int]int),
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		stats.add(event)
	}

	printStats(w, stats)
	return nil
}

func (s *Stats) add(event log.Event) {
	s.TotalEvents++
	s.EventsByCategory[event.Category]++
	s.EventsByTopic[event.Topic]++

	if s.TimeRange.Start.IsZero() || event.Timestamp.Before(s.TimeRange.Start) {
		s.TimeRange.Start = event.Timestamp
	}
	if event.Timestamp.After(s.TimeRange.End) {
		s.TimeRange.End = event.Timestamp
	}

	if event.Device != nil && event.Topic == "device_created" {
		s.Devices[event.DeviceID]++
	}

	if event.ClientID == "" {
		return
	}
	c, ok := s.Clients[event.ClientID]
	if !ok {
		c = &ClientStats{FirstSeen: event.Timestamp, LastSeen: event.Timestamp}
		s.Clients[event.ClientID] = c
	}
	c.Events++
	if event.Timestamp.After(c.LastSeen) {
		c.LastSeen = event.Timestamp
	}
	if event.Input != nil {
		c.Inputs++
	}
	if event.DeviceID != 0 {
		c.DeviceID = event.DeviceID
	}
	if event.Client != nil {
		if event.Client.Origin != "" {
			c.Origin = event.Client.Origin
		}
		if event.Client.ProfileName != "" {
			c.ProfileName = event.Client.ProfileName
		}
	}
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== Remote Gamepad Journal Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Category:")
	for _, cat := range []log.Category{log.CategoryClient, log.CategoryDevice, log.CategoryInput} {
		if count := stats.EventsByCategory[cat]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", cat.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Topic:")
	topics := make([]string, 0, len(stats.EventsByTopic))
	for t := range stats.EventsByTopic {
		topics = append(topics, t)
	}
	sort.Strings(topics)
	for _, t := range topics {
		fmt.Fprintf(w, "  %-24s %d\n", t+":", stats.EventsByTopic[t])
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Gamepads: %d\n", len(stats.Devices))
	fmt.Fprintf(w, "Clients: %d\n", len(stats.Clients))
	if len(stats.Clients) == 0 {
		return
	}

	type clientInfo struct {
		id    string
		stats *ClientStats
	}
	clients := make([]clientInfo, 0, len(stats.Clients))
	for id, cs := range stats.Clients {
		clients = append(clients, clientInfo{id, cs})
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].stats.FirstSeen.Before(clients[j].stats.FirstSeen)
	})

	fmt.Fprintln(w)
	for _, c := range clients {
		duration := c.stats.LastSeen.Sub(c.stats.FirstSeen).Round(time.Millisecond)
		fmt.Fprintf(w, "  [%s] %d events, %d inputs, duration %s\n", c.id, c.stats.Events, c.stats.Inputs, duration)
		if c.stats.Origin != "" {
			fmt.Fprintf(w, "      Origin: %s\n", c.stats.Origin)
		}
		if c.stats.ProfileName != "" {
			fmt.Fprintf(w, "      Profile: %s\n", c.stats.ProfileName)
		}
		if c.stats.DeviceID != 0 {
			fmt.Fprintf(w, "      Gamepad: %d\n", c.stats.DeviceID)
		}
	}
}
