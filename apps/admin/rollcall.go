package main

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/chamadaweb/chamada/core/attendance"
)

var errRollCallAborted = errors.New("roll call aborted")

const rollCallHelp = `Commands:
  N               toggle the presence of student N
  j N             justify the absence of student N
  o N TEXT        set the observation of student N
  c N URL NAME    attach a medical certificate to the absence of student N
  t START END     set the class times (HH:MM)
  n TEXT          set the class observations
  s               submit
  q               quit without submitting`

// rollCall takes the roll call of a class interactively and submits it.
func (cli *commandLine) rollCall(classID, instructor, date string) error {
	ctx := context.Background()

	class, err := cli.schoolSvc.GetClass(ctx, classID)
	if err != nil {
		return err
	}
	roster, err := cli.schoolSvc.ClassRoster(ctx, classID)
	if err != nil {
		return err
	}
	rc := attendance.NewRollCall(class, roster, instructor, date)

	fmt.Fprintf(cli.out, "%s - %s (%s), %s\n", class.Name, class.Course, class.Unit, date)
	fmt.Fprintln(cli.out, rollCallHelp)
	cli.printRollCall(rc)

	scanner := bufio.NewScanner(cli.in)
	for {
		fmt.Fprint(cli.out, "> ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return errors.Wrap(err, "reading input")
			}
			return errRollCallAborted
		}

		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case line == "q":
			return errRollCallAborted
		case line == "s":
			receipt, err := cli.attSvc.Submit(ctx, rc.Submission())
			if err != nil {
				return err
			}
			fmt.Fprintf(cli.out, "Chamada salva com sucesso: %s (%d registros)\n", receipt.AttendanceID, receipt.RecordsCount)
			return nil
		}

		if err := applyRollCallCommand(rc, line); err != nil {
			fmt.Fprintf(cli.out, "error: %v\n", err)
			continue
		}
		cli.printRollCall(rc)
	}
}

// applyRollCallCommand applies one edit command to rc.
func applyRollCallCommand(rc *attendance.RollCall, line string) error {
	roster := rc.Roster()
	studentAt := func(arg string) (string, error) {
		n, err := strconv.Atoi(arg)
		if err != nil || n < 1 || n > len(roster) {
			return "", errors.Errorf("no student %q", arg)
		}
		return roster[n-1].ID, nil
	}

	fields := strings.Fields(line)
	if len(fields) == 1 {
		id, err := studentAt(fields[0])
		if err != nil {
			return err
		}
		mark, _ := rc.Mark(id)
		return rc.SetPresent(id, !mark.Present)
	}

	cmd, rest := fields[0], strings.TrimSpace(strings.TrimPrefix(line, fields[0]))
	switch cmd {
	case "t":
		if len(fields) != 3 {
			return errors.New("usage: t START END")
		}
		rc.SetTimes(fields[1], fields[2])
		return nil
	case "n":
		rc.SetClassObservations(rest)
		return nil
	}

	id, err := studentAt(fields[1])
	if err != nil {
		return err
	}
	switch cmd {
	case "j":
		mark, _ := rc.Mark(id)
		return rc.Justify(id, !mark.Justified)
	case "o":
		return rc.Observe(id, strings.TrimSpace(strings.TrimPrefix(rest, fields[1])))
	case "c":
		if len(fields) < 4 {
			return errors.New("usage: c N URL NAME")
		}
		return rc.AttachCertificate(id, attendance.Certificate{URL: fields[2], Name: strings.Join(fields[3:], " ")})
	default:
		return errors.Errorf("unknown command %q", cmd)
	}
}

func (cli *commandLine) printRollCall(rc *attendance.RollCall) {
	for i, st := range rc.Roster() {
		mark, _ := rc.Mark(st.ID)
		status := "P"
		switch {
		case mark.Present:
		case mark.Justified:
			status = "J"
		default:
			status = "F"
		}
		line := fmt.Sprintf("%3d [%s] %s", i+1, status, st.Name)
		if mark.Observation != "" {
			line += " - " + mark.Observation
		}
		if mark.Certificate != nil {
			line += " (atestado: " + mark.Certificate.Name + ")"
		}
		fmt.Fprintln(cli.out, line)
	}
	present, justified, absent := rc.Tally()
	fmt.Fprintf(cli.out, "Presentes: %d  Faltas justificadas: %d  Faltas: %d\n", present, justified, absent)
}
