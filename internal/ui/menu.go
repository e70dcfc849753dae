package ui

import (
	"fmt"
	"os"
	"strconv"
)

type menuOption struct {
	title   string
	handler func()
}

// ShowMenu displays the main menu and handles user input
func ShowMenu() {
	menuOptions := []menuOption{
		{"Classify snow and cloud cover of a lake over a date range", ClassifyLake},
		{"Classify a local six band GeoTIFF", ClassifyFile},
		{"Export daily air temperature of a lake", LakeTemperature},
		{"View the list of available lake collections", ListCollections},
		{"View the list of lakes in a collection", func() { ListLakes("") }},
		{"Print the EO Browser evalscript", PrintEvalscript},
		{"Exit the application", func() { fmt.Println("Exiting..."); os.Exit(0) }},
	}

	for {
		fmt.Println(ColorBlue + "===================" + ColorReset)
		for i, opt := range menuOptions {
			fmt.Printf("%s%d. %s%s\n", ColorBlue, i+1, opt.title, ColorReset)
		}
		fmt.Println(ColorBlue + "Please enter your choice:" + ColorReset)

		choice, err := strconv.Atoi(ReadString(""))
		if err != nil {
			PrintError("Invalid input. Please enter a number.")
			continue
		}

		if choice < 1 || choice > len(menuOptions) {
			PrintError("Invalid choice. Please try again.")
			continue
		}

		menuOptions[choice-1].handler()
	}
}
