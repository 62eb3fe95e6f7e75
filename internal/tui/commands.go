package tui

import (
	"errors"
	"strings"
)

const commandHelp = `COMMANDS:
  /a <id> | <description> | <YYYY-MM-DD> | <priority>: add a task (priority High, Medium or Low)
  /u <id> [status=<status>] [due=<YYYY-MM-DD>]: update status and/or due date
  /s <keyword>: search by description or status
  /l: list all tasks
  /h: show this help

  ctrl+c: quit (tasks are not saved)
`

var (
	errAddUsage    = errors.New("usage: /a <id> | <description> | <YYYY-MM-DD> | <priority>")
	errUpdateUsage = errors.New("usage: /u <id> [status=<status>] [due=<YYYY-MM-DD>]")
)

type addArgs struct {
	id, description, dueDate, priority string
}

func parseAdd(arg string) (addArgs, error) {
	parts := strings.Split(arg, "|")
	if len(parts) != 4 {
		return addArgs{}, errAddUsage
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	a := addArgs{id: parts[0], description: parts[1], dueDate: parts[2], priority: parts[3]}
	if a.id == "" || a.description == "" {
		return addArgs{}, errAddUsage
	}
	return a, nil
}

type updateArgs struct {
	id, status, dueDate string
}

// parseUpdate reads "<id> status=<status> due=<date>". Status values may
// contain spaces ("In Progress"), so words following status= belong to it
// until the next key.
func parseUpdate(arg string) (updateArgs, error) {
	fields := strings.Fields(arg)
	if len(fields) < 2 {
		return updateArgs{}, errUpdateUsage
	}
	u := updateArgs{id: fields[0]}
	var status []string
	inStatus := false
	for _, f := range fields[1:] {
		switch {
		case strings.HasPrefix(f, "status="):
			inStatus = true
			status = append(status[:0], strings.TrimPrefix(f, "status="))
		case strings.HasPrefix(f, "due="):
			inStatus = false
			u.dueDate = strings.TrimPrefix(f, "due=")
		case inStatus:
			status = append(status, f)
		default:
			return updateArgs{}, errUpdateUsage
		}
	}
	u.status = strings.TrimSpace(strings.Join(status, " "))
	if u.status == "" && u.dueDate == "" {
		return updateArgs{}, errUpdateUsage
	}
	return u, nil
}
