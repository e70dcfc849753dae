package main

import (
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/airbusgeo/godal"
	"github.com/common-nighthawk/go-figure"
	bannercolor "github.com/fatih/color"
	"github.com/forest-guardian/lake-snow-cli/internal/logger"
	"github.com/forest-guardian/lake-snow-cli/internal/notification"
	"github.com/forest-guardian/lake-snow-cli/internal/properties"
	"github.com/forest-guardian/lake-snow-cli/internal/ui"
)

func printBanner() {
	figure1 := figure.NewFigure("Lake Snow", "isometric1", true)
	figure2 := figure.NewFigure("CLI", "isometric1", true)
	bannercolor.Cyan(figure1.String())
	bannercolor.Cyan(figure2.String())
	fmt.Println()
}

func recoverPanic() {
	r := recover()
	if r == nil {
		return
	}
	pc, file, line, ok := runtime.Caller(3) // 3 levels up is usually the panic source
	location := "Unknown location"
	if ok {
		location = fmt.Sprintf("%s:%d in %s", file, line, runtime.FuncForPC(pc).Name())
	}

	fmt.Printf("\n%sPANIC: %v%s\n", ui.ColorRed, r, ui.ColorReset)
	fmt.Printf("%sLocation: %s%s\n", ui.ColorRed, location, ui.ColorReset)
	fmt.Printf("%sExiting...%s\n", ui.ColorRed, ui.ColorReset)

	message := fmt.Sprintf("Lake snow CLI panic:\n\n%v\n\nLocation: %s\n\nStack trace:\n%s", r, location, debug.Stack())
	if err := notification.SendDiscordErrorNotification(message); err != nil {
		logger.Get().Warn().Err(err).Msg("failed to send panic notification")
	}
	os.Exit(1)
}

func inputArg() string {
	for i, arg := range os.Args {
		if strings.HasPrefix(arg, "--input=") {
			return strings.TrimPrefix(arg, "--input=")
		}
		if arg == "--input" && i+1 < len(os.Args) {
			return os.Args[i+1]
		}
	}
	return ""
}

func main() {
	if err := properties.Load(); err != nil {
		fmt.Printf("%sNo .env file found, using the environment: %s%s\n", ui.ColorYellow, err.Error(), ui.ColorReset)
	}
	logger.Init(properties.LogLevel(), properties.LogFormat())
	godal.RegisterAll()

	defer recoverPanic()

	if input := inputArg(); input != "" {
		ui.RunClassifyFile(input)
		return
	}

	printBanner()
	ui.ShowMenu()
}
