package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/chzyer/readline"
	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/oraclient/sqlplus"
)

type replFlags struct {
	binary       string
	tempDir      string
	connectAs    string
	raiseOnError bool
	debug        bool
}

func main() {
	flags := replFlags{}

	app := &cobra.Command{
		Use:          "sqlplus-repl user/password@service",
		Short:        "Interactive SQL console driving an external sqlplus subprocess",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepl(args[0], flags)
		},
	}

	app.Flags().StringVar(&flags.binary, "binary", sqlplus.DefaultBinary, "Path to the client binary")
	app.Flags().StringVar(&flags.tempDir, "temp-dir", "", "Directory for script and spool files")
	app.Flags().StringVar(&flags.connectAs, "as", "", "Privileged connect role, e.g. sysdba")
	app.Flags().BoolVar(&flags.raiseOnError, "raise-on-error", false, "Stop on the first failing statement")
	app.Flags().BoolVarP(&flags.debug, "debug", "d", false, "Show all debug messages")

	if err := app.Execute(); err != nil {
		os.Exit(1)
	}
}

func runRepl(target string, flags replFlags) error {
	log := logrus.New()
	if flags.debug {
		log.SetLevel(logrus.DebugLevel)
	}

	registry := sqlplus.NewRegistry()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	go func() {
		// Release every temp file before the interrupt takes the process
		// down mid-statement.
		<-ctx.Done()
		_ = registry.CloseAll()
	}()

	conn, err := sqlplus.Connect(target, &sqlplus.Options{
		TempDir:      flags.tempDir,
		Logger:       log,
		ConnectAs:    flags.connectAs,
		RaiseOnError: flags.raiseOnError,
		Runner:       sqlplus.NewRunner(flags.binary),
		Registry:     registry,
	})
	if err != nil {
		return err
	}
	defer conn.Close()

	l, err := readline.NewEx(&readline.Config{
		Prompt:          "SQL> ",
		HistoryFile:     "/tmp/sqlplus-repl.history",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return err
	}
	defer l.Close()

	fmt.Println("Connected through", flags.binary+".")
	for {
		line, err := l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				break
			}
			continue
		} else if err == io.EOF {
			break
		}
		if err != nil {
			fmt.Println("Error while reading line:", err)
			continue
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if trimmed == "quit" || trimmed == "exit" || trimmed == "\\q" {
			break
		}

		affected, err := conn.Execute(ctx, trimmed)
		if err != nil {
			fmt.Println("Error while executing:", err)
			continue
		}
		if conn.Errored() {
			fmt.Println(conn.ErrorMessage())
			continue
		}
		render(conn, affected)
	}
	return nil
}

func render(conn *sqlplus.Connection, affected int) {
	headers := conn.Headers()
	rows := conn.Rows()

	if len(headers) == 0 {
		if affected != sqlplus.AffectedUndefined {
			if affected == 1 {
				fmt.Println("(1 row affected)")
			} else {
				fmt.Printf("(%d rows affected)\n", affected)
			}
		} else {
			fmt.Println("ok")
		}
		return
	}

	if len(rows) == 0 {
		fmt.Println("(no results)")
		return
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(headers)
	table.SetAutoFormatHeaders(false)
	table.SetBorder(false)
	table.AppendBulk(rows)
	table.Render()

	if len(rows) == 1 {
		fmt.Println("(1 result)")
	} else {
		fmt.Printf("(%d results)\n", len(rows))
	}
}
