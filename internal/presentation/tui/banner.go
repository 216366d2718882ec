package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

var bannerLines = []string{
	" _     _         _                     ",
	"| |__ | |__  ___| | ___ _ __ ___   ___ ",
	"| '_ \\| '_ \\/ __| |/ _ \\ '_ ` _ \\ / _ \\",
	"| |_) | |_) \\__ \\ |  __/ | | | | | (_) |",
	"|_.__/|_.__/|___/_|\\___|_| |_| |_|\\___/",
}

var bannerGradient = []string{"#818cf8", "#a78bfa", "#c084fc", "#e879f9", "#f472b6"}

// PrintBanner writes the bbsdemo ASCII art banner followed by the version.
// Colors degrade to the profile supported by w.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	fmt.Fprintln(w)
	for i, line := range bannerLines {
		fmt.Fprintln(w, out.String(line).Foreground(out.Color(bannerGradient[i%len(bannerGradient)])))
	}
	if v := strings.TrimSpace(version); v != "" {
		fmt.Fprintln(w, out.String("  Blum Blum Shub demo client v"+v).Faint())
	}
	fmt.Fprintln(w)
}
