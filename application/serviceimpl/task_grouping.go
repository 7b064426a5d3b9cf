package serviceimpl

import (
	"fmt"
	"math"

	"github.com/gosimple/slug"

	"topic-tasks/domain/models"
	"topic-tasks/domain/services"
)

// BuildTaskGroups groups tasks by heading in order of first appearance.
// Group counters cover the whole group; Tasks holds only what passes the
// status filter, and groups left empty by the filter are dropped.
func BuildTaskGroups(tasks []*models.Task, filter services.GroupFilter) *services.TaskGroups {
	result := &services.TaskGroups{
		Groups:   make([]services.TaskGroup, 0),
		Headings: make([]string, 0),
	}

	var order []string
	byHeading := make(map[string][]*models.Task)
	for _, task := range tasks {
		key := task.HeadingOrEmpty()
		untitled := key == ""
		if untitled {
			key = services.UntitledHeading
		}
		if _, seen := byHeading[key]; !seen {
			order = append(order, key)
			if !untitled {
				result.Headings = append(result.Headings, key)
			}
		}
		byHeading[key] = append(byHeading[key], task)

		result.Total++
		if task.Completed {
			result.Completed++
		}
	}
	result.Progress = Progress(result.Completed, result.Total)

	// anchors are assigned over every heading so they stay stable across filters
	anchors := uniqueAnchors(order)
	for _, heading := range order {
		if filter.Heading != "" && filter.Heading != services.AllHeadings && filter.Heading != heading {
			continue
		}

		group := byHeading[heading]
		completed := 0
		filtered := make([]*models.Task, 0, len(group))
		for _, task := range group {
			if task.Completed {
				completed++
			}
			if matchesStatus(task, filter.Status) {
				filtered = append(filtered, task)
			}
		}
		if len(filtered) == 0 {
			continue
		}

		result.Groups = append(result.Groups, services.TaskGroup{
			Heading:   heading,
			Anchor:    anchors[heading],
			Total:     len(group),
			Completed: completed,
			Progress:  Progress(completed, len(group)),
			Tasks:     filtered,
		})
	}

	return result
}

// Progress is the rounded completion percentage; 0 when there is nothing to do.
func Progress(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) * 100 / float64(total)))
}

// Anchor is the fragment id the dashboard scrolls to for a heading.
func Anchor(heading string) string {
	s := slug.Make(heading)
	if s == "" {
		return "topic"
	}
	return "topic-" + s
}

// uniqueAnchors maps each heading to its anchor, suffixing -2, -3, ... when
// two headings slug to the same id ("C" and "C#").
func uniqueAnchors(headings []string) map[string]string {
	anchors := make(map[string]string, len(headings))
	used := make(map[string]bool, len(headings))
	for _, heading := range headings {
		base := Anchor(heading)
		anchor := base
		for n := 2; used[anchor]; n++ {
			anchor = fmt.Sprintf("%s-%d", base, n)
		}
		used[anchor] = true
		anchors[heading] = anchor
	}
	return anchors
}

func matchesStatus(task *models.Task, status string) bool {
	switch status {
	case services.StatusCompleted:
		return task.Completed
	case services.StatusIncomplete:
		return !task.Completed
	default:
		return true
	}
}
