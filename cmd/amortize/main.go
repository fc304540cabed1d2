package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/mcclellann/fredBank/pkg/ledger"
	"github.com/mcclellann/fredBank/pkg/models"
	"github.com/mcclellann/fredBank/pkg/store"
	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"
)

var (
	principal = flag.String("principal", "", "Principal amount, e.g. 12000")
	rate      = flag.String("rate", "0", "Annual interest rate in percent, e.g. 6.5")
	tenure    = flag.Int("tenure", 12, "Tenure in months")
	startDate = flag.String("start", "", "First period start date (YYYY-MM-DD), defaults to today")
	dataDir   = flag.String("data", "", "Fixture directory to read a stored loan from")
	loanID    = flag.Int64("loan", 0, "ID of a stored loan in -data")
)

func main() {
	flag.Parse()

	schedule, err := buildSchedule()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		flag.Usage()
		os.Exit(2)
	}
	renderSchedule(os.Stdout, schedule)
}

func buildSchedule() ([]ledger.AmortizationPeriod, error) {
	if *dataDir != "" || *loanID != 0 {
		if *dataDir == "" || *loanID == 0 {
			return nil, fmt.Errorf("-data and -loan must be used together")
		}
		d, err := store.LoadDir(*dataDir)
		if err != nil {
			return nil, err
		}
		l := ledger.NewLedger(d, ledger.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
		return l.GetLoanAmortizationSchedule(models.ID(*loanID))
	}

	p, err := decimal.NewFromString(*principal)
	if err != nil {
		return nil, fmt.Errorf("invalid -principal %q", *principal)
	}
	r, err := decimal.NewFromString(*rate)
	if err != nil {
		return nil, fmt.Errorf("invalid -rate %q", *rate)
	}

	start := models.CivilDate(time.Now())
	if *startDate != "" {
		start, err = models.Date(*startDate).Time()
		if err != nil {
			return nil, err
		}
	}
	return ledger.AmortizationSchedule(p, r, *tenure, start)
}

func renderSchedule(w io.Writer, schedule []ledger.AmortizationPeriod) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Period", "Start", "End", "Payment", "Principal", "Interest", "Balance"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	totalPaid, totalInterest := decimal.Zero, decimal.Zero
	for _, p := range schedule {
		table.Append([]string{
			strconv.Itoa(p.Period),
			string(p.PeriodStart),
			string(p.PeriodEnd),
			p.ScheduledAmount.StringFixed(2),
			p.Principal.StringFixed(2),
			p.Interest.StringFixed(2),
			p.Balance.StringFixed(2),
		})
		totalPaid = totalPaid.Add(p.ScheduledAmount)
		totalInterest = totalInterest.Add(p.Interest)
	}
	table.SetFooter([]string{"", "", "Total", totalPaid.StringFixed(2), "", totalInterest.StringFixed(2), ""})

	table.Render()
}
