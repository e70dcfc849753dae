package ui

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/forest-guardian/lake-snow-cli/internal/utils"
)

// Colors for consistent UI
const (
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorReset  = "\033[0m"
)

var stdin = bufio.NewReader(os.Stdin)

func PrintWarning(message string) {
	fmt.Printf("%s\nWarning:%s\n", ColorYellow, ColorReset)
	fmt.Printf("%s%s%s\n", ColorYellow, message, ColorReset)
}

func PrintError(message string) {
	fmt.Printf("\n%sError: %s%s\n", ColorRed, message, ColorReset)
}

func PrintSuccess(message string) {
	fmt.Printf("\n%s%s%s\n", ColorGreen, message, ColorReset)
}

func PrintInfo(message string) {
	fmt.Printf("%s%s%s", ColorBlue, message, ColorReset)
}

// ReadString reads a trimmed line from stdin
func ReadString(prompt string) string {
	PrintInfo(prompt)
	input, _ := stdin.ReadString('\n')
	return strings.TrimSpace(input)
}

// ReadPositiveInt reads a positive integer, falling back to def on an empty line
func ReadPositiveInt(prompt string, def int) (int, error) {
	input := ReadString(prompt)
	if input == "" {
		return def, nil
	}
	value, err := strconv.Atoi(input)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("invalid number: %s. Please enter a positive integer", input)
	}
	return value, nil
}

func ReadDate(prompt string) (time.Time, error) {
	input := ReadString(prompt)
	date, err := utils.ParseDay(input)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: %s. Please use YYYY-MM-DD", input)
	}
	return date, nil
}

// ReadDateRange reads an end date and a number of days before it
func ReadDateRange() (time.Time, time.Time, error) {
	endDate, err := ReadDate("Enter the end date (YYYY-MM-DD | today): ")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	days, err := ReadPositiveInt("Enter number of days [30]: ", 30)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return endDate.AddDate(0, 0, -days), endDate, nil
}

// ReadCollectionAndLake lists what is available and reads a collection and lake id
func ReadCollectionAndLake() (string, string, error) {
	ListCollections()
	collection := ReadString("Enter the collection name: ")
	if collection == "" {
		return "", "", fmt.Errorf("collection name cannot be empty")
	}
	ListLakes(collection)
	lakeID := ReadString("Enter the lake id: ")
	if lakeID == "" {
		return "", "", fmt.Errorf("lake id cannot be empty")
	}
	return collection, lakeID, nil
}
