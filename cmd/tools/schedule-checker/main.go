// cmd/tools/schedule-checker/main.go
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"tender-scheduler/internal/rules"
	"tender-scheduler/internal/schedule"
)

func main() {
	parseCmd := flag.NewFlagSet("parse", flag.ExitOnError)
	dueCmd := flag.NewFlagSet("due", flag.ExitOnError)
	rulesCmd := flag.NewFlagSet("rules", flag.ExitOnError)

	// Parse command flags
	parseSchedule := parseCmd.String("schedule", "", "Schedule string (e.g., \"Pondělí v 10:00, Každý den\")")
	parseHour := parseCmd.Int("daily-hour", 12, "Hour bound to every-day entries")

	// Due command flags
	dueSchedule := dueCmd.String("schedule", "", "Schedule string to evaluate")
	dueHour := dueCmd.Int("daily-hour", 12, "Hour bound to every-day entries")
	dueAt := dueCmd.String("at", "", "Instant to evaluate, RFC3339 (default: now)")
	dueOffset := dueCmd.Int("offset", 2, "UTC offset in hours the schedule is written in")

	// Rules command flags
	rulesSchedule := rulesCmd.String("schedule", "", "Schedule string to project")
	rulesUser := rulesCmd.String("user", "", "User ID the rules belong to")
	rulesHour := rulesCmd.Int("daily-hour", 10, "Hour every projected rule fires at")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "parse":
		parseCmd.Parse(os.Args[2:])
		if *parseSchedule == "" {
			fmt.Println("Error: -schedule is required for parse.")
			parseCmd.Usage()
			os.Exit(1)
		}
		printSlots(*parseSchedule, *parseHour)

	case "due":
		dueCmd.Parse(os.Args[2:])
		if *dueSchedule == "" {
			fmt.Println("Error: -schedule is required for due.")
			dueCmd.Usage()
			os.Exit(1)
		}
		err := printDue(*dueSchedule, *dueHour, *dueAt, *dueOffset)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

	case "rules":
		rulesCmd.Parse(os.Args[2:])
		if *rulesSchedule == "" || *rulesUser == "" {
			fmt.Println("Error: -schedule and -user are required for rules.")
			rulesCmd.Usage()
			os.Exit(1)
		}
		printRules(*rulesSchedule, *rulesUser, *rulesHour)

	case "help":
		fallthrough
	default:
		help()
	}
}

func printSlots(raw string, dailyHour int) {
	entries := schedule.Entries(raw)
	if len(entries) == 0 {
		fmt.Println("Empty schedule: never due, no rules projected.")
		return
	}

	for _, entry := range entries {
		slot, ok := schedule.ParseEntry(entry, dailyHour)
		switch {
		case !ok:
			fmt.Printf("%-28q -> unknown day, never due (rule path falls back to a catch-all)\n", entry)
		case slot.Daily:
			fmt.Printf("%-28q -> every day at %02d:00\n", entry, slot.Hour)
		case slot.Hour == schedule.HourNone:
			fmt.Printf("%-28q -> %s, no usable time, never due\n", entry, slot.Day)
		default:
			fmt.Printf("%-28q -> %s at %02d:00\n", entry, slot.Day, slot.Hour)
		}
	}
}

func printDue(raw string, dailyHour int, at string, offsetHours int) error {
	now := time.Now()
	if at != "" {
		parsed, err := time.Parse(time.RFC3339, at)
		if err != nil {
			return fmt.Errorf("invalid -at instant: %w", err)
		}
		now = parsed
	}

	local := now.In(schedule.Location(offsetHours))
	spec := schedule.Parse(raw, dailyHour)

	if spec.Matches(local) {
		fmt.Printf("DUE at %s (%s, hour %02d)\n",
			local.Format(time.RFC3339), schedule.FromTime(local.Weekday()), local.Hour())
	} else {
		fmt.Printf("not due at %s (%s, hour %02d)\n",
			local.Format(time.RFC3339), schedule.FromTime(local.Weekday()), local.Hour())
	}
	return nil
}

func printRules(raw, userID string, dailyHour int) {
	entries := schedule.Entries(raw)
	if len(entries) == 0 {
		fmt.Println("Empty schedule: no rules projected.")
		return
	}

	seen := map[string]bool{}
	for _, entry := range entries {
		name := rules.RuleName(userID, entry)
		if seen[name] {
			fmt.Printf("%-28q -> duplicate entry, collapses into %s\n", entry, name)
			continue
		}
		seen[name] = true

		note := ""
		if _, ok := schedule.ParseEntry(entry, dailyHour); !ok {
			note = "  (unknown day: catch-all)"
		}
		fmt.Printf("%-28q -> %s  %s%s\n", entry, name, schedule.CronExpression(entry, dailyHour), note)
	}
	fmt.Printf("Target ID: %s\n", rules.TargetID(userID))
}

func help() {
	fmt.Println(`schedule-checker inspects a stored schedule string (frekvence_zasilani).

Usage:
  schedule-checker parse -schedule "<schedule>" [-daily-hour 12]
  schedule-checker due   -schedule "<schedule>" [-at RFC3339] [-daily-hour 12] [-offset 2]
  schedule-checker rules -schedule "<schedule>" -user <user_id> [-daily-hour 10]

Commands:
  parse  Show how the sweep understands each entry.
  due    Evaluate the schedule at an instant (default: now).
  rules  Show the trigger rules a rebuild would project for a user.`)
}
