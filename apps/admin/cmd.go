package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"golang.org/x/term"

	"github.com/chamadaweb/chamada/core"
	"github.com/chamadaweb/chamada/core/attendance"
	"github.com/chamadaweb/chamada/core/report"
	"github.com/chamadaweb/chamada/core/school"
	"github.com/chamadaweb/chamada/core/user"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	conf       *core.Config
	usrRepo    user.Repository
	schoolRepo school.Repository
	creds      user.CredentialVerifier
	usrSvc     *user.Service
	schoolSvc  *school.Service
	attSvc     *attendance.Service
	reportSvc  *report.Service
	validate   *validator.Validate
	translator ut.Translator

	in  io.Reader // rollcall input
	out io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  adduser -name NAME -email EMAIL -cpf CPF -role ROLE [-unit UNIT_ID] - create an approved user (or update the password of an existing one)")
	fmt.Fprintln(cli.out, "  resetpassword -email EMAIL - reset a user's password")
	fmt.Fprintln(cli.out, "  seed - insert the sample data into an empty database")
	fmt.Fprintln(cli.out, "  backup -o FILE - export every record as JSON")
	fmt.Fprintln(cli.out, "  publish-report [-sheet NAME] - write the attendance report to the configured Google Sheet")
	fmt.Fprintln(cli.out, "  rollcall -class CLASS_ID -instructor NAME [-date YYYY-MM-DD] - take the roll call of a class")
}

// promptPassword reads a password from the terminal without echoing it.
func (cli *commandLine) promptPassword() (string, error) {
	fmt.Fprint(cli.out, "Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addUserCmd := flag.NewFlagSet("adduser", flag.ExitOnError)
	addUserName := addUserCmd.String("name", "", "The user's full name.")
	addUserEmail := addUserCmd.String("email", "", "The user's email. The password will be prompted next.")
	addUserCPF := addUserCmd.String("cpf", "", "The user's CPF.")
	addUserRole := addUserCmd.String("role", user.RoleAdmin, "admin, instrutor, pedagogo or monitor.")
	addUserUnit := addUserCmd.String("unit", "", "The id of the user's unit.")

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ExitOnError)
	resetPasswordEmail := resetPasswordCmd.String("email", "", "The user's email. The password will be prompted next.")

	seedCmd := flag.NewFlagSet("seed", flag.ExitOnError)

	backupCmd := flag.NewFlagSet("backup", flag.ExitOnError)
	backupOutput := backupCmd.String("o", "", "The file to write the backup to.")

	publishCmd := flag.NewFlagSet("publish-report", flag.ExitOnError)
	publishSheet := publishCmd.String("sheet", cli.conf.Sheets.SheetName, "The name of the sheet to replace.")

	rollCallCmd := flag.NewFlagSet("rollcall", flag.ExitOnError)
	rollCallClass := rollCallCmd.String("class", "", "The id of the class.")
	rollCallInstructor := rollCallCmd.String("instructor", "", "The name of the instructor taking the roll call.")
	rollCallDate := rollCallCmd.String("date", "", "The date of the class (YYYY-MM-DD); defaults to today.")

	switch args[1] {
	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addUserEmail == "" {
			addUserCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			addUserCmd.Usage()
			return errHelp
		}
		return cli.addUser(user.NewUser{
			Name:     *addUserName,
			Email:    *addUserEmail,
			CPF:      *addUserCPF,
			Password: pwd,
			Role:     *addUserRole,
			UnitID:   *addUserUnit,
		})

	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetPasswordEmail == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		return cli.resetPassword(*resetPasswordEmail, pwd)

	case "seed":
		if err := seedCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.seed()

	case "backup":
		if err := backupCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *backupOutput == "" {
			backupCmd.Usage()
			return errHelp
		}
		return cli.backup(*backupOutput)

	case "publish-report":
		if err := publishCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *publishSheet == "" {
			publishCmd.Usage()
			return errHelp
		}
		return cli.publishReport(*publishSheet)

	case "rollcall":
		if err := rollCallCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *rollCallClass == "" || *rollCallInstructor == "" {
			rollCallCmd.Usage()
			return errHelp
		}
		date := *rollCallDate
		if date == "" {
			date = core.Today()
		}
		return cli.rollCall(*rollCallClass, *rollCallInstructor, date)

	default:
		cli.printUsage()
		return errHelp
	}
}
