package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/hurttlocker/cratedig/internal/doctor"
)

func runDoctor(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected argument: %s", args[0])
	}

	cfg, err := resolveConfig()
	if err != nil {
		return err
	}

	report := doctor.Run(context.Background(), cfg)

	if globalJSON {
		if err := emitJSON(report); err != nil {
			return err
		}
	} else {
		green := color.New(color.FgGreen)
		yellow := color.New(color.FgYellow)
		red := color.New(color.FgRed)

		for _, c := range report.Checks {
			var tag string
			switch c.Status {
			case doctor.StatusOK:
				tag = green.Sprint("ok  ")
			case doctor.StatusWarn:
				tag = yellow.Sprint("warn")
			default:
				tag = red.Sprint("FAIL")
			}
			fmt.Printf("[%s] %-16s %s\n", tag, c.Name, c.Detail)
		}
	}

	if !report.Healthy {
		return fmt.Errorf("environment not healthy")
	}
	return nil
}
