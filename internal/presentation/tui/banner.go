package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the beetflow banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{` _               _    __ _`, "#a3e635"},
		{`| |__   ___  ___| |_ / _| | _____      __`, "#84cc16"},
		{`| '_ \ / _ \/ _ \ __| |_| |/ _ \ \ /\ / /`, "#65a30d"},
		{`| |_) |  __/  __/ |_|  _| | (_) \ V  V /`, "#4d7c0f"},
		{`|_.__/ \___|\___|\__|_| |_|\___/ \_/\_/`, "#3f6212"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
