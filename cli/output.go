package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/Dosada05/swiss-tournament/models"
)

type playerCount struct {
	Count int `json:"count"`
}

// Output handles formatting output based on the configured format
type Output struct {
	w      io.Writer
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(w io.Writer, format string) *Output {
	return &Output{w: w, format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		o.printJSON(map[string]string{"message": msg})
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	tw := tabwriter.NewWriter(o.w, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	switch v := data.(type) {
	case models.Player:
		fmt.Fprintf(tw, "Registered player %d\t%s\n", v.ID, v.Name)
	case playerCount:
		fmt.Fprintln(tw, v.Count)
	case models.Match:
		fmt.Fprintf(tw, "Recorded match %d: %d beat %d\n", v.ID, v.WinnerID, v.LoserID)
	case []models.Match:
		fmt.Fprintln(tw, "ID\tWINNER\tLOSER")
		for _, m := range v {
			fmt.Fprintf(tw, "%d\t%d\t%d\n", m.ID, m.WinnerID, m.LoserID)
		}
	case []models.StandingsEntry:
		fmt.Fprintln(tw, "RANK\tID\tNAME\tWINS\tPLAYED")
		for i, e := range v {
			fmt.Fprintf(tw, "%d\t%d\t%s\t%d\t%d\n", i+1, e.ID, e.Name, e.Wins, e.MatchesPlayed)
		}
	case []models.Pairing:
		fmt.Fprintln(tw, "TABLE\tID1\tNAME1\tID2\tNAME2")
		for i, p := range v {
			fmt.Fprintf(tw, "%d\t%d\t%s\t%d\t%s\n", i+1, p.ID1, p.Name1, p.ID2, p.Name2)
		}
	default:
		tw.Flush()
		o.printJSON(data)
	}
}
