package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/garyjia/benefit-reimbursement/internal/application/service"
	"github.com/garyjia/benefit-reimbursement/internal/application/submission"
	"github.com/garyjia/benefit-reimbursement/internal/container"
	"github.com/garyjia/benefit-reimbursement/internal/directory"
	"github.com/garyjia/benefit-reimbursement/internal/domain/entity"
	"github.com/garyjia/benefit-reimbursement/internal/presenter"
	"github.com/garyjia/benefit-reimbursement/internal/upload"
	"github.com/garyjia/benefit-reimbursement/pkg/utils"
)

const maxHistory = 500

func runEmployees(ctx context.Context, a *app, args []string) error {
	fs := a.newFlagSet("employees", "")
	if err := a.parse(fs, args); err != nil {
		return err
	}

	dir := directory.New(a.client, a.logger)
	if err := dir.Load(ctx); err != nil {
		return fmt.Errorf("load employees: %w", err)
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tEMPLOYEE")
	for _, opt := range dir.Options() {
		fmt.Fprintf(w, "%s\t%s\n", opt.Value, opt.Label)
	}
	return w.Flush()
}

func runSubmit(ctx context.Context, a *app, args []string) error {
	fs := a.newFlagSet("submit", "--employee <id|code> --file <path>")
	employeeKey := fs.StringP("employee", "e", "", "employee id or employee code")
	filePath := fs.StringP("file", "f", "", "invoice file (JPG, PNG or PDF)")
	noJournal := fs.Bool("no-journal", false, "do not record the submission locally")
	if err := a.parse(fs, args); err != nil {
		return err
	}

	dir := directory.New(a.client, a.logger)
	if err := dir.Load(ctx); err != nil {
		return fmt.Errorf("load employees: %w", err)
	}

	disp, err := container.ProvideDispatcher(a.logger)
	if err != nil {
		return err
	}
	deps := &container.HandlerDeps{Dispatcher: disp, Logger: a.logger}
	if !*noJournal {
		bundle, err := container.ProvideDatabase(ctx, a.cfg.DatabaseConfig(), a.logger)
		if err != nil {
			a.logger.Warn("Journal unavailable, submission will not be recorded", zap.Error(err))
		} else {
			defer bundle.DB.Close()
			deps.Journal = bundle.Journal
		}
	}
	if err := container.RegisterHandlers(deps); err != nil {
		return err
	}
	// handlers must finish before the journal closes
	defer disp.Close()

	session := submission.NewSession(uuid.NewString(), a.client,
		submission.WithLogger(a.logger),
		submission.WithPublisher(disp))
	defer session.Abandon()

	if *employeeKey != "" {
		ref, err := dir.Lookup(*employeeKey)
		if err != nil {
			return fmt.Errorf("unknown employee %q", *employeeKey)
		}
		if err := session.SelectEmployee(&ref); err != nil {
			return err
		}
	}

	if *filePath != "" {
		content, err := readInvoice(*filePath)
		if err != nil {
			return err
		}
		_, err = session.SelectInvoice(upload.Candidate{
			FileName: filepath.Base(*filePath),
			Content:  content,
		})
		var rejected *upload.RejectedError
		if errors.As(err, &rejected) {
			fmt.Fprintf(a.errOut, "%s: %s\n", submission.FieldInvoice, rejected.Message())
			return errUsage
		}
		if err != nil {
			return err
		}
	}

	snap, err := session.Submit(ctx)
	var verr *submission.ValidationError
	if errors.As(err, &verr) {
		for _, f := range verr.Failures {
			fmt.Fprintf(a.errOut, "%s: %s\n", f.Field, f.Message)
		}
		return errUsage
	}
	if err != nil {
		return err
	}

	return presenter.WriteText(a.out, a.presenter.Present(snap.Outcome))
}

func runShow(ctx context.Context, a *app, args []string) error {
	fs := a.newFlagSet("show", "<request-id>")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errUsage
	}

	outcome, err := a.client.GetReimbursement(ctx, fs.Arg(0))
	if err != nil {
		return fmt.Errorf("get reimbursement: %w", err)
	}
	return presenter.WriteText(a.out, a.presenter.Present(outcome))
}

func runBalances(ctx context.Context, a *app, args []string) error {
	fs := a.newFlagSet("balances", "--employee <id|code> [--year N] [--month N] [--xlsx out.xlsx]")
	employeeKey := fs.StringP("employee", "e", "", "employee id or employee code")
	year := fs.Int("year", 0, "year (default: current)")
	month := fs.Int("month", 0, "month 1-12 (default: current)")
	xlsxPath := fs.String("xlsx", "", "write the balances to an Excel workbook")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	if *employeeKey == "" {
		fs.Usage()
		return errUsage
	}

	employeeID, err := a.resolveEmployeeID(ctx, *employeeKey)
	if err != nil {
		return err
	}

	balances, err := service.NewBalanceService(a.client, utils.NewKVLogger(a.logger)).
		Balances(ctx, employeeID, *year, *month)
	if err != nil {
		return err
	}

	if *xlsxPath != "" {
		f, err := os.Create(*xlsxPath)
		if err != nil {
			return fmt.Errorf("create report: %w", err)
		}
		if err := service.WriteBalanceReport(f, balances); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Fprintf(a.out, "Wrote %d balances to %s\n", len(balances), *xlsxPath)
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "CATEGORY\tPERIOD\tANNUAL LIMIT\tANNUAL LEFT\tMONTHLY LIMIT\tMONTHLY LEFT\t")
	for _, b := range balances {
		fmt.Fprintf(w, "%s\t%d-%02d\t%s\t%s\t%s\t%s\t\n",
			b.CategoryName, b.Year, b.Month,
			a.money(b.AnnualLimit), a.money(b.AnnualRemaining),
			a.money(b.MonthlyLimit), a.money(b.MonthlyRemaining))
	}
	return w.Flush()
}

func runHistory(ctx context.Context, a *app, args []string) error {
	fs := a.newFlagSet("history", "[--limit N]")
	limit := fs.IntP("limit", "n", 20, "number of entries to show")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	if *limit < 1 || *limit > maxHistory {
		return fmt.Errorf("limit must be between 1 and %d", maxHistory)
	}

	bundle, err := container.ProvideDatabase(ctx, a.cfg.DatabaseConfig(), a.logger)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer bundle.DB.Close()

	entries, err := bundle.Journal.List(ctx, *limit, 0)
	if err != nil {
		return fmt.Errorf("list submissions: %w", err)
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tSTATUS\tEMPLOYEE\tFILE\tREQUEST")
	for _, e := range entries {
		status := e.Status
		if e.ErrorMessage != "" {
			status += " (" + e.ErrorMessage + ")"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			e.CreatedAt.Local().Format("2006-01-02 15:04"),
			status, dash(e.EmployeeName), dash(e.FileName), dash(e.RequestID))
	}
	return w.Flush()
}

// readInvoice reads at most one byte past the upload ceiling so an oversized
// file is still rejected as too large without being loaded whole
func readInvoice(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read invoice: %w", err)
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, entity.MaxArtifactBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read invoice: %w", err)
	}
	return content, nil
}

// resolveEmployeeID accepts a UUID as is and looks anything else up by code
func (a *app) resolveEmployeeID(ctx context.Context, key string) (uuid.UUID, error) {
	if id, err := uuid.Parse(key); err == nil {
		return id, nil
	}
	dir := directory.New(a.client, a.logger)
	if err := dir.Load(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("load employees: %w", err)
	}
	ref, err := dir.ResolveCode(key)
	if err != nil {
		return uuid.Nil, fmt.Errorf("unknown employee %q", key)
	}
	return ref.ID, nil
}

func (a *app) money(amount decimal.Decimal) string {
	return a.presenter.Money(amount, entity.DefaultCurrency)
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
