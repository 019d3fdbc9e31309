package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"roomload/allocation"
	"roomload/schedule"
)

var (
	allocationSource rowSourceFlags
	allocationDays   string
	allocationRooms  bool
)

var allocationCmd = &cobra.Command{
	Use:   "allocation",
	Short: "Print room occupancy per weekday and time slot",
	Long: `Build the room occupancy grid and print, for each weekday with at least one
roomed class, how many rooms are occupied and vacant in every time slot.

Rows are read from --input files, --url, the --db row store, or source.url
from the config, in that order.`,
	Example: `
  # Occupancy from the staged rows
  roomload allocation

  # Only Monday and Thursday, listing the occupied rooms per slot
  roomload allocation -i ./schedule.xlsx --days MTH --rooms
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		snapshot, err := loadSnapshot(cmd, &allocationSource)
		if err != nil {
			return err
		}
		if !snapshot.HasAllocation() {
			fmt.Println("No roomed classes found.")
			return nil
		}

		filter, err := dayFilter(allocationDays)
		if err != nil {
			return err
		}

		fmt.Printf("Rooms: %d (%s)\n", len(snapshot.Grid.Rooms), strings.Join(snapshot.Grid.Rooms, ", "))
		for _, day := range snapshot.Grid.Days {
			if !filter.Empty() && !filter.Has(day.Weekday) {
				continue
			}
			printAllocationDay(day, allocationRooms)
		}
		printSkipped(snapshot.Report)
		return nil
	},
}

func printAllocationDay(day allocation.Day, withRooms bool) {
	fmt.Printf("\n%s\n", day.Label)
	for _, usage := range day.Slots {
		marker := " "
		if usage.Slot.Highlight {
			marker = "*"
		}
		fmt.Printf("%s %-21s occupied %3d  vacant %3d\n", marker, usage.Slot.Label, usage.OccupiedCount, usage.VacantCount)
		if !withRooms || usage.OccupiedCount == 0 {
			continue
		}
		occupied := make([]string, 0, usage.OccupiedCount)
		for _, room := range usage.Rooms {
			if room.Occupied() {
				occupied = append(occupied, room.Room)
			}
		}
		fmt.Printf("    %s\n", strings.Join(occupied, ", "))
	}
}

// dayFilter expands a day code such as "MWF"; an empty code selects every day.
func dayFilter(code string) (schedule.WeekdaySet, error) {
	if strings.TrimSpace(code) == "" {
		return schedule.WeekdaySet(0), nil
	}
	days := schedule.ExpandDays(code)
	if days.Empty() {
		return days, fmt.Errorf("invalid --days value %q (expected a day code such as MWF or TTH)", code)
	}
	return days, nil
}

func init() {
	rootCmd.AddCommand(allocationCmd)

	allocationSource.register(allocationCmd, "format")
	allocationCmd.Flags().StringVar(&allocationDays, "days", "", "Day code selecting the weekdays to print, e.g. MWF (default: all)")
	allocationCmd.Flags().BoolVar(&allocationRooms, "rooms", false, "List occupied rooms under each slot")
}
