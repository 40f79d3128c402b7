// Package commands holds CLI subcommands registered on the PocketBase root
// command.
package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"rapbuilder/services"
)

// estimateFile is the parser response shape, so a saved response can be fed
// straight back in.
type estimateFile struct {
	Header    services.HeaderInfo `json:"header"`
	LineItems []services.LineItem `json:"line_items"`
}

type distributeOptions struct {
	estimate   string
	prices     []string
	policy     string
	contractor string
	export     string
	format     string
	region     string
	claim      string
	asJSON     bool
}

// NewDistributeCommand returns the "distribute" command. It runs a saved
// estimate or a line item sheet through dedup, pricing and room
// distribution without the web UI, and optionally writes the RAP document.
func NewDistributeCommand(logger *logrus.Logger) *cobra.Command {
	opts := &distributeOptions{}
	cmd := &cobra.Command{
		Use:   "distribute",
		Short: "Distribute contractor prices over a parsed estimate",
		Example: `  rapbuilder distribute --estimate estimate.json --price "Drywall/Plaster=1500" --price Painting=800
  rapbuilder distribute --estimate estimate.json --price Painting=800 --contractor gc.json --export rap.pdf`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDistribute(cmd.Context(), cmd.OutOrStdout(), logger, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.estimate, "estimate", "e", "", "parser JSON with header and line_items, or a .csv/.xlsx line item sheet")
	f.StringVar(&opts.claim, "claim", "", "claim number for the RAP header")
	f.StringArrayVarP(&opts.prices, "price", "p", nil, "contractor price as Category=amount (repeatable)")
	f.StringVar(&opts.policy, "dedup", string(services.DedupByLine), "dedup policy: line or category")
	f.StringVar(&opts.contractor, "contractor", "", "contractor details JSON, required with --export")
	f.StringVarP(&opts.export, "export", "o", "", "write the RAP document to this path")
	f.StringVar(&opts.format, "format", "", "export format (pdf, xlsx, json); defaults to the --export extension")
	f.StringVar(&opts.region, "phone-region", "US", "default region for contractor phone validation")
	f.BoolVar(&opts.asJSON, "json", false, "print rooms as JSON instead of a table")
	_ = cmd.MarkFlagRequired("estimate")

	return cmd
}

func runDistribute(ctx context.Context, out io.Writer, logger *logrus.Logger, opts *distributeOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	policy, err := services.ParseDedupPolicy(opts.policy)
	if err != nil {
		return err
	}

	est, err := readEstimate(opts.estimate, opts.claim)
	if err != nil {
		return err
	}
	items := services.RemoveDuplicates(est.LineItems, policy)
	sheet := services.InitializePricing(services.GroupByCategory(items), nil)

	for _, p := range opts.prices {
		category, amount, ok := strings.Cut(p, "=")
		if !ok {
			return fmt.Errorf("price %q: expected Category=amount", p)
		}
		if sheet, err = sheet.SetContractorPrice(strings.TrimSpace(category), amount); err != nil {
			return fmt.Errorf("price %q: %w", p, err)
		}
		if cp, _ := sheet.Get(strings.TrimSpace(category)); cp.Invalid() {
			return fmt.Errorf("price %q: %q is not a valid amount", p, amount)
		}
	}

	logger.WithFields(logrus.Fields{
		"items":      len(items),
		"categories": len(sheet),
		"dedup":      string(policy),
	}).Debug("estimate loaded")

	rooms := services.GroupByRoom(services.Distribute(items, sheet))
	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rooms); err != nil {
			return err
		}
	} else if err := printRooms(out, rooms, sheet.Totals()); err != nil {
		return err
	}

	if opts.export == "" {
		return nil
	}
	return writeExport(ctx, out, opts, est.Header, items, sheet)
}

// readEstimate loads a saved parser response (.json) or a line item sheet
// (.csv, .xlsx). Sheets carry no header, so claim is used as the claim number.
func readEstimate(path, claim string) (estimateFile, error) {
	var est estimateFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".xlsx":
		f, err := os.Open(path)
		if err != nil {
			return est, fmt.Errorf("read estimate: %w", err)
		}
		defer f.Close()

		res, err := services.ImportLineItems(path, f)
		if err != nil {
			return est, fmt.Errorf("import %s: %w", path, err)
		}
		if len(res.Errors) > 0 {
			errs := make([]error, len(res.Errors))
			for i, re := range res.Errors {
				errs[i] = re
			}
			return est, fmt.Errorf("import %s: %w", path, errors.Join(errs...))
		}
		est.LineItems = res.LineItems
		est.Header = services.HeaderInfo{}
	default:
		b, err := os.ReadFile(path)
		if err != nil {
			return est, fmt.Errorf("read estimate: %w", err)
		}
		if err := json.Unmarshal(b, &est); err != nil {
			return est, fmt.Errorf("decode estimate %s: %w", path, err)
		}
	}

	if claim != "" {
		if est.Header == nil {
			est.Header = services.HeaderInfo{}
		}
		est.Header["claim_number"] = claim
	}
	if len(est.LineItems) == 0 {
		return est, fmt.Errorf("estimate %s has no line items", path)
	}
	return est, nil
}

func printRooms(out io.Writer, rooms []services.RoomGroup, totals services.PricingTotals) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Room\tDescription\tCategory\tQty\tRCV\tRAP Price\t")
	for _, room := range rooms {
		for _, it := range room.Items {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s %s\t%s\t%s\t\n",
				room.Room, it.Description, it.CategoryOrDefault(),
				services.FormatQuantity(it.Quantity), it.Unit,
				services.FormatUSD(it.RCV), services.FormatUSD(it.DistributedPrice))
		}
		fmt.Fprintf(tw, "%s total\t\t\t\t%s\t%s\t\n",
			room.Room, services.FormatUSD(room.RCV), services.FormatUSD(room.DistributedTotal))
	}
	fmt.Fprintf(tw, "\t\t\t\t\t\t\n")
	fmt.Fprintf(tw, "Total IA\t%s\t\t\t\t\t\n", services.FormatUSD(totals.IAEstimate))
	fmt.Fprintf(tw, "Total Contractor\t%s\t\t\t\t\t\n", services.FormatUSD(totals.ContractorPrice))
	fmt.Fprintf(tw, "Total Adjustment\t%s\t\t\t\t\t\n", services.FormatAdjustment(totals.Adjustment))
	return tw.Flush()
}

func writeExport(ctx context.Context, out io.Writer, opts *distributeOptions, header services.HeaderInfo, items []services.LineItem, sheet services.PricingSheet) error {
	if opts.contractor == "" {
		return errors.New("--contractor is required with --export")
	}
	format, err := exportFormat(opts)
	if err != nil {
		return err
	}
	if err := sheet.ValidateForExport(); err != nil {
		return err
	}

	b, err := os.ReadFile(opts.contractor)
	if err != nil {
		return fmt.Errorf("read contractor: %w", err)
	}
	var contractor services.ContractorDetails
	if err := json.Unmarshal(b, &contractor); err != nil {
		return fmt.Errorf("decode contractor %s: %w", opts.contractor, err)
	}
	if err := services.ValidateContractor(contractor, opts.region); err != nil {
		return err
	}

	data := services.BuildRAPExport(contractor.Trimmed(), header, items, sheet, time.Now())
	file, err := services.RenderRAP(ctx, format, data)
	if err != nil {
		return err
	}
	if err := os.WriteFile(opts.export, file.Body, 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	fmt.Fprintf(out, "wrote %s (%d bytes)\n", opts.export, len(file.Body))
	return nil
}

func exportFormat(opts *distributeOptions) (services.ExportFormat, error) {
	if opts.format != "" {
		return services.ParseExportFormat(opts.format)
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(opts.export)), ".")
	if ext == "" {
		return services.FormatPDF, nil
	}
	return services.ParseExportFormat(ext)
}
