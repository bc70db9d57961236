package app

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/retailmetrics/internal/analyzer"
	"github.com/blackwell-systems/retailmetrics/internal/output"
	"github.com/blackwell-systems/retailmetrics/internal/transactions"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Choose a metric interactively",
	Long: `Prompt for a metric and its inputs, then print the answer.

  a) Retailer affinity for a brand
  b) Number of households, with optional brand, retailer and date filters
  c) Top buying brand`,
	Args: cobra.NoArgs,
	RunE: runMenu,
}

func init() {
	RootCmd.AddCommand(menuCmd)
}

// prompter reads one answer per line.
type prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func (p *prompter) ask(question string) (string, error) {
	fmt.Fprint(p.out, question)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", fmt.Errorf("failed to read answer: %w", err)
		}
		return "", transactions.NewFieldError(transactions.ErrInvalidArgument, "input", "",
			errors.New("no answer given"))
	}
	return strings.TrimSpace(p.in.Text()), nil
}

// askOptional asks a y/n question and, on yes, the follow-up question.
// It returns "" when the answer is no.
func (p *prompter) askOptional(question, followUp string) (string, error) {
	answer, err := p.ask(question + " y/n: ")
	if err != nil {
		return "", err
	}
	if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
		return "", nil
	}
	return p.ask(followUp)
}

func runMenu(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	out := cmd.OutOrStdout()
	p := &prompter{in: bufio.NewScanner(cmd.InOrStdin()), out: out}

	choice, err := p.ask("Which metric would you like to see?\n\n" +
		"  a) Retailer Affinity\n" +
		"  b) Number of Households\n" +
		"  c) Top Buying Brand\n\n> ")
	if err != nil {
		return err
	}

	switch strings.ToLower(choice) {
	case "a":
		ds, err := s.Load()
		if err != nil {
			return err
		}
		brand, err := p.ask("\nEnter an energy drink brand:\n" + indent(ds.Brands()) + "\n> ")
		if err != nil {
			return err
		}
		brand = s.aliases.Resolve(brand)
		retailer, err := analyzer.RetailerAffinity(ds, brand)
		if err != nil {
			return err
		}
		fmt.Fprint(out, "\n"+output.RenderAffinity(brand, retailer, nil))

	case "b":
		brand, err := p.askOptional("\nSelect an energy drink brand?", "Enter an energy drink brand: ")
		if err != nil {
			return err
		}
		retailer, err := p.askOptional("Select a retailer?", "Enter a retailer: ")
		if err != nil {
			return err
		}
		start, err := p.askOptional("Would you like to enter a start date?", "Enter a start date (YYYY-MM-DD): ")
		if err != nil {
			return err
		}
		end, err := p.askOptional("Would you like to enter an end date?", "Enter an end date (YYYY-MM-DD): ")
		if err != nil {
			return err
		}

		filter, err := analyzer.ParseHouseholdFilter(s.aliases.Resolve(brand), s.aliases.Resolve(retailer),
			start, end, s.cfg.Dataset.DateLayouts)
		if err != nil {
			return err
		}
		if err := filter.Validate(); err != nil {
			return err
		}
		ds, err := s.Load()
		if err != nil {
			return err
		}
		count, err := analyzer.CountHouseholds(ds, filter)
		if err != nil {
			return err
		}
		fmt.Fprint(out, "\n"+output.RenderHouseholdCount(filter, count))

	case "c":
		ds, err := s.Load()
		if err != nil {
			return err
		}
		brand, err := analyzer.TopBuyingBrand(ds)
		if err != nil {
			return err
		}
		fmt.Fprint(out, "\n"+output.RenderTopBrand(brand, nil, 0))

	default:
		return transactions.NewFieldError(transactions.ErrInvalidArgument, "choice", choice,
			errors.New("please enter only a, b, or c"))
	}

	return nil
}

func indent(values []string) string {
	var sb strings.Builder
	for _, v := range values {
		sb.WriteString("  " + v + "\n")
	}
	return sb.String()
}
