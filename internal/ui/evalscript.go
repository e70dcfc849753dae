package ui

import (
	"fmt"

	"github.com/forest-guardian/lake-snow-cli/internal/sentinel"
)

// PrintEvalscript prints the script that renders the same classification in EO Browser
func PrintEvalscript() {
	PrintWarning("Paste it as a custom script in EO Browser or the Sentinel Hub Process API.")
	fmt.Println()
	fmt.Println(sentinel.BrowserEvalscript)
}
