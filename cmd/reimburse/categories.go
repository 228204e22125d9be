package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	flag "github.com/spf13/pflag"

	"github.com/garyjia/benefit-reimbursement/internal/application/service"
	"github.com/garyjia/benefit-reimbursement/internal/domain/entity"
	"github.com/garyjia/benefit-reimbursement/pkg/utils"
)

const categoriesSynopsis = `<action> [flags]

Actions:
  list
  add --name N --max A --annual A --monthly A
  update <category> [--name N] [--max A] [--annual A] [--monthly A]
  delete <category>
  keywords <category>
  add-keyword <category> <keyword>
  delete-keyword <category> <keyword-id>

<category> is a category id or its name.
`

func runCategories(ctx context.Context, a *app, args []string) error {
	if len(args) == 0 {
		fmt.Fprintf(a.errOut, "Usage: reimburse categories %s", categoriesSynopsis)
		return errUsage
	}
	catalog := service.NewCatalogService(a.client, utils.NewKVLogger(a.logger))
	action, rest := args[0], args[1:]

	switch action {
	case "list":
		return a.listCategories(ctx, catalog)
	case "add":
		return a.saveCategory(ctx, catalog, "add", rest, false)
	case "update":
		return a.saveCategory(ctx, catalog, "update", rest, true)
	case "delete":
		fs := a.newFlagSet("categories delete", "<category>")
		if err := a.parseArgs(fs, rest, 1); err != nil {
			return err
		}
		id, err := a.resolveCategoryID(ctx, catalog, fs.Arg(0))
		if err != nil {
			return err
		}
		if err := catalog.DeleteCategory(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Deleted category %s\n", id)
		return nil
	case "keywords":
		fs := a.newFlagSet("categories keywords", "<category>")
		if err := a.parseArgs(fs, rest, 1); err != nil {
			return err
		}
		id, err := a.resolveCategoryID(ctx, catalog, fs.Arg(0))
		if err != nil {
			return err
		}
		keywords, err := catalog.ListKeywords(ctx, id)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tKEYWORD")
		for _, k := range keywords {
			fmt.Fprintf(w, "%s\t%s\n", k.ID, k.Keyword)
		}
		return w.Flush()
	case "add-keyword":
		fs := a.newFlagSet("categories add-keyword", "<category> <keyword>")
		if err := a.parseArgs(fs, rest, 2); err != nil {
			return err
		}
		id, err := a.resolveCategoryID(ctx, catalog, fs.Arg(0))
		if err != nil {
			return err
		}
		keyword, err := catalog.AddKeyword(ctx, id, fs.Arg(1))
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Added keyword %q (%s)\n", keyword.Keyword, keyword.ID)
		return nil
	case "delete-keyword":
		fs := a.newFlagSet("categories delete-keyword", "<category> <keyword-id>")
		if err := a.parseArgs(fs, rest, 2); err != nil {
			return err
		}
		id, err := a.resolveCategoryID(ctx, catalog, fs.Arg(0))
		if err != nil {
			return err
		}
		keywordID, err := uuid.Parse(fs.Arg(1))
		if err != nil {
			return fmt.Errorf("invalid keyword id %q", fs.Arg(1))
		}
		if err := catalog.DeleteKeyword(ctx, id, keywordID); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Deleted keyword %s\n", keywordID)
		return nil
	default:
		fmt.Fprintf(a.errOut, "unknown categories action %q\n\nUsage: reimburse categories %s", action, categoriesSynopsis)
		return errUsage
	}
}

func (a *app) listCategories(ctx context.Context, catalog service.CatalogService) error {
	categories, err := catalog.ListCategories(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPER TRANSACTION\tANNUAL\tMONTHLY\tKEYWORDS")
	for _, c := range categories {
		keywords := make([]string, 0, len(c.Keywords))
		for _, k := range c.Keywords {
			keywords = append(keywords, k.Keyword)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			c.ID, c.Name,
			a.money(c.MaxTransactionAmount), a.money(c.AnnualLimit), a.money(c.MonthlyLimit),
			dash(strings.Join(keywords, ", ")))
	}
	return w.Flush()
}

// saveCategory handles add and update. On update only the flags given are sent.
func (a *app) saveCategory(ctx context.Context, catalog service.CatalogService, action string, args []string, update bool) error {
	synopsis := "--name N --max A --annual A --monthly A"
	if update {
		synopsis = "<category> [--name N] [--max A] [--annual A] [--monthly A]"
	}
	fs := a.newFlagSet("categories "+action, synopsis)
	fs.String("name", "", "category name")
	fs.String("max", "", "maximum amount per transaction")
	fs.String("annual", "", "annual limit")
	fs.String("monthly", "", "monthly limit")

	want := 0
	if update {
		want = 1
	}
	if err := a.parseArgs(fs, args, want); err != nil {
		return err
	}

	var in entity.CategoryInput
	if fs.Changed("name") {
		name, _ := fs.GetString("name")
		in.Name = &name
	}
	for flagName, target := range map[string]**decimal.Decimal{
		"max":     &in.MaxTransactionAmount,
		"annual":  &in.AnnualLimit,
		"monthly": &in.MonthlyLimit,
	} {
		amount, err := decimalFlag(fs, flagName)
		if err != nil {
			return err
		}
		*target = amount
	}

	var (
		category entity.Category
		err      error
	)
	if update {
		id, rerr := a.resolveCategoryID(ctx, catalog, fs.Arg(0))
		if rerr != nil {
			return rerr
		}
		category, err = catalog.UpdateCategory(ctx, id, in)
	} else {
		category, err = catalog.CreateCategory(ctx, in)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Saved category %q (%s)\n", category.Name, category.ID)
	return nil
}

// parseArgs parses flags and requires exactly n positional arguments
func (a *app) parseArgs(fs *flag.FlagSet, args []string, n int) error {
	if err := a.parse(fs, args); err != nil {
		return err
	}
	if fs.NArg() != n {
		fs.Usage()
		return errUsage
	}
	return nil
}

// resolveCategoryID accepts a category id or a case-insensitive name
func (a *app) resolveCategoryID(ctx context.Context, catalog service.CatalogService, key string) (uuid.UUID, error) {
	if id, err := uuid.Parse(key); err == nil {
		return id, nil
	}

	categories, err := catalog.ListCategories(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	for _, c := range categories {
		if strings.EqualFold(c.Name, strings.TrimSpace(key)) {
			return c.ID, nil
		}
	}
	return uuid.Nil, fmt.Errorf("unknown category %q", key)
}

func decimalFlag(fs *flag.FlagSet, name string) (*decimal.Decimal, error) {
	if !fs.Changed(name) {
		return nil, nil
	}
	raw, _ := fs.GetString(name)
	amount, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("invalid --%s amount %q", name, raw)
	}
	return &amount, nil
}
