package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"roomload/loads"
	"roomload/schedule"
)

var (
	loadsSource     rowSourceFlags
	loadsInstructor string
	loadsDetail     bool
)

var loadsCmd = &cobra.Command{
	Use:   "loads",
	Short: "Print teaching loads per instructor",
	Long: `Aggregate the schedule per instructor and print course, OJT and competency
appraisal units. Each class counts once per week no matter how many days it
meets. Department placeholders listed in loads.excluded_instructors are skipped.

Rows are read from --input files, --url, the --db row store, or source.url
from the config, in that order.`,
	Example: `
  # Load summary from the staged rows
  roomload loads

  # Weekly schedule of one instructor
  roomload loads -i ./schedule.csv --instructor "dela cruz" --detail
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		snapshot, err := loadSnapshot(cmd, &loadsSource)
		if err != nil {
			return err
		}
		if !snapshot.HasLoads() {
			fmt.Println("No instructor loads found.")
			return nil
		}

		filter := strings.ToUpper(strings.TrimSpace(loadsInstructor))
		printed := 0
		fmt.Printf("%-36s %8s %8s %10s %8s\n", "Instructor", "Course", "OJT", "Appraisal", "Total")
		for _, load := range snapshot.Loads.Instructors {
			if filter != "" && !strings.Contains(load.Key, filter) {
				continue
			}
			printed++
			fmt.Printf("%-36s %8s %8s %10s %8s\n",
				load.Name,
				unitsText(load.Summary.CourseUnits),
				unitsText(load.Summary.OJTUnits),
				unitsText(load.Summary.AppraisalUnits),
				unitsText(load.Summary.Total),
			)
			if loadsDetail {
				printLoadSchedule(load)
			}
		}
		fmt.Printf("Instructors: %d\n", printed)
		printSkipped(snapshot.Report)
		return nil
	},
}

func printLoadSchedule(load loads.InstructorLoad) {
	for _, day := range schedule.WeekOrder {
		items := load.Schedule[day]
		if len(items) == 0 {
			continue
		}
		fmt.Printf("    %s\n", day)
		for _, item := range items {
			room := item.Room
			if room == "" {
				room = "-"
			}
			fmt.Printf("      %-20s %-10s %-8s %s (%s)\n", item.ScheduleLabel, item.SubjectCode, room, item.Title, item.PYB)
		}
	}
}

func unitsText(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func init() {
	rootCmd.AddCommand(loadsCmd)

	loadsSource.register(loadsCmd, "format")
	loadsCmd.Flags().StringVar(&loadsInstructor, "instructor", "", "Only instructors whose name contains this text (case-insensitive)")
	loadsCmd.Flags().BoolVar(&loadsDetail, "detail", false, "Print each instructor's weekly schedule")
}
