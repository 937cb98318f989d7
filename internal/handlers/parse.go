package handlers

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ulugbekov/vazifabot/internal/models"
)

var (
	dateRe = regexp.MustCompile(`^\d{1,2}\.\d{1,2}\.(\d{2}|\d{4})$`)
	timeRe = regexp.MustCompile(`^\d{1,2}:\d{2}$`)
)

// ParseAddArgs parses /add arguments: everything is the task name unless
// the trailing tokens form "dd.mm.yy|yyyy hh:mm", optionally followed by
// a priority word (easy|medium|hard). The priority word is only consumed
// when it directly follows a time token, so a task named "hard" stays a
// name. An unparsed date defaults to now, an unparsed priority to LOW.
func ParseAddArgs(args []string, now time.Time) (name string, dueAt time.Time, priority models.TaskPriority) {
	name = strings.Join(args, " ")
	dueAt = now
	priority = models.TaskPriorityLow

	if len(args) >= 2 {
		dateStr := args[len(args)-2]
		timeStr := args[len(args)-1]
		if dateRe.MatchString(dateStr) && timeRe.MatchString(timeStr) {
			name = strings.Join(args[:len(args)-2], " ")
			dueAt = parseDue(dateStr, timeStr, now)
		}
	}

	if len(args) >= 3 {
		last := strings.ToLower(args[len(args)-1])
		if models.IsPriorityWord(last) && timeRe.MatchString(args[len(args)-2]) {
			priority = models.PriorityFromWord(last)

			dateStr := args[len(args)-3]
			timeStr := args[len(args)-2]
			if dateRe.MatchString(dateStr) {
				name = strings.Join(args[:len(args)-3], " ")
				dueAt = parseDue(dateStr, timeStr, now)
			}
		}
	}

	return name, dueAt, priority
}

// parseDue builds the due timestamp from pre-validated date and time
// tokens in the caller's location. Two-digit years are 20xx.
func parseDue(dateStr, timeStr string, now time.Time) time.Time {
	dateParts := strings.Split(dateStr, ".")
	day, _ := strconv.Atoi(dateParts[0])
	month, _ := strconv.Atoi(dateParts[1])
	year, _ := strconv.Atoi(dateParts[2])
	if year < 100 {
		year += 2000
	}

	timeParts := strings.Split(timeStr, ":")
	hour, _ := strconv.Atoi(timeParts[0])
	minute, _ := strconv.Atoi(timeParts[1])

	return time.Date(year, time.Month(month), day, hour, minute, 0, 0, now.Location())
}
