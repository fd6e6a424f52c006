package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"invoice-reconciliation-service/cmd/reconciler/config"
	"invoice-reconciliation-service/internal/loader"
	"invoice-reconciliation-service/internal/reconciler"
	"invoice-reconciliation-service/internal/reporter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flags for the match command
var (
	inputFile        string
	transactionsFile string
	documentsFile    string
	preferencesFile  string
	outputFormat     string
	outputFile       string

	dateTolerance      int
	preIssueGrace      int
	postDueGrace       int
	autoMatchThreshold float64
	candidateThreshold float64
	allowCrossCurrency bool
	allowPartial       bool
)

// matchCmd represents the match command
var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Match bank transactions against financial documents",
	Long: `Match runs the reconciliation pipeline: it generates candidate pairs
from every transaction and document, scores each candidate with the
configured rules, and classifies the results into definitive matches,
ambiguous matches, and unmatched records.

Input is JSON, either a single file holding both record sets or separate
transaction and document files.

Examples:
  # Single input file with transactions, documents, and preferences
  reconciler match --input reconciliation.json

  # Separate files
  reconciler match --transactions tx.json --documents docs.json

  # Preference overrides
  reconciler match --input reconciliation.json \
    --date-tolerance 3 --allow-cross-currency

  # Machine-readable output
  reconciler match --input reconciliation.json \
    --output-format json --output-file report.json`,

	PreRunE: validateMatchFlags,
	RunE:    runMatch,
}

func init() {
	rootCmd.AddCommand(matchCmd)

	// Input flags
	matchCmd.Flags().StringVarP(&inputFile, "input", "i", "", "path to combined input JSON file")
	matchCmd.Flags().StringVarP(&transactionsFile, "transactions", "t", "", "path to transactions JSON file")
	matchCmd.Flags().StringVarP(&documentsFile, "documents", "d", "", "path to documents JSON file")
	matchCmd.Flags().StringVarP(&preferencesFile, "preferences", "p", "", "path to matching preferences JSON file")

	// Output flags
	matchCmd.Flags().StringVarP(&outputFormat, "output-format", "f", "console", "output format: console, json, csv")
	matchCmd.Flags().StringVarP(&outputFile, "output-file", "o", "", "output file path (default: stdout)")

	// Matching preference overrides
	matchCmd.Flags().IntVar(&dateTolerance, "date-tolerance", 0, "date window tolerance in days after the issue date")
	matchCmd.Flags().IntVar(&preIssueGrace, "pre-issue-grace", 0, "days a payment may precede the issue date")
	matchCmd.Flags().IntVar(&postDueGrace, "post-due-grace", 0, "days a payment may follow the due date")
	matchCmd.Flags().Float64Var(&autoMatchThreshold, "auto-match-threshold", 1.0, "minimum confidence for a definitive match (0.0-1.0)")
	matchCmd.Flags().Float64Var(&candidateThreshold, "candidate-threshold", 0.0, "minimum confidence for a candidate to survive (0.0-1.0)")
	matchCmd.Flags().BoolVar(&allowCrossCurrency, "allow-cross-currency", false, "keep candidates whose currencies differ")
	matchCmd.Flags().BoolVar(&allowPartial, "allow-partial-payments", false, "do not penalize payments below the document total")

	// Bind flags to viper
	viper.BindPFlag("input", matchCmd.Flags().Lookup("input"))
	viper.BindPFlag("transactions", matchCmd.Flags().Lookup("transactions"))
	viper.BindPFlag("documents", matchCmd.Flags().Lookup("documents"))
	viper.BindPFlag("preferences", matchCmd.Flags().Lookup("preferences"))
	viper.BindPFlag("output-format", matchCmd.Flags().Lookup("output-format"))
	viper.BindPFlag("output-file", matchCmd.Flags().Lookup("output-file"))
}

func validateMatchFlags(cmd *cobra.Command, args []string) error {
	// Get values from viper (allows override from config file)
	inputFile = viper.GetString("input")
	transactionsFile = viper.GetString("transactions")
	documentsFile = viper.GetString("documents")
	preferencesFile = viper.GetString("preferences")
	outputFormat = viper.GetString("output-format")
	outputFile = viper.GetString("output-file")

	// Exactly one input style
	if inputFile == "" && transactionsFile == "" && documentsFile == "" {
		return fmt.Errorf("either --input or both --transactions and --documents are required")
	}
	if inputFile != "" && (transactionsFile != "" || documentsFile != "") {
		return fmt.Errorf("--input cannot be combined with --transactions or --documents")
	}
	if inputFile == "" && (transactionsFile == "" || documentsFile == "") {
		return fmt.Errorf("--transactions and --documents must be provided together")
	}

	// Validate file existence
	if inputFile != "" {
		if err := validateFileExists(inputFile, "input file"); err != nil {
			return err
		}
	} else {
		if err := validateFileExists(transactionsFile, "transactions file"); err != nil {
			return err
		}
		if err := validateFileExists(documentsFile, "documents file"); err != nil {
			return err
		}
	}
	if preferencesFile != "" {
		if err := validateFileExists(preferencesFile, "preferences file"); err != nil {
			return err
		}
	}

	// Validate output format
	if !reporter.OutputFormat(outputFormat).IsValid() {
		return fmt.Errorf("invalid output format '%s'. Valid formats: console, json, csv", outputFormat)
	}

	// Validate output file directory exists if specified
	if outputFile != "" {
		dir := filepath.Dir(outputFile)
		if dir != "." {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				return fmt.Errorf("output directory does not exist: %s", dir)
			}
		}
	}

	return nil
}

func validateFileExists(filePath, description string) error {
	if filePath == "" {
		return fmt.Errorf("%s path cannot be empty", description)
	}

	info, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return fmt.Errorf("%s does not exist: %s", description, filePath)
	}
	if err != nil {
		return fmt.Errorf("error accessing %s: %w", description, err)
	}

	if info.IsDir() {
		return fmt.Errorf("%s is a directory, expected a file: %s", description, filePath)
	}

	return nil
}

// collectOverrides records the preference flags the user actually set.
func collectOverrides(cmd *cobra.Command) *config.PreferenceOverrides {
	overrides := &config.PreferenceOverrides{}
	if cmd.Flags().Changed("date-tolerance") {
		overrides.DateToleranceDays = &dateTolerance
	}
	if cmd.Flags().Changed("pre-issue-grace") {
		overrides.PreIssueGraceDays = &preIssueGrace
	}
	if cmd.Flags().Changed("post-due-grace") {
		overrides.PostDueGraceDays = &postDueGrace
	}
	if cmd.Flags().Changed("auto-match-threshold") {
		overrides.MinConfidenceAutoMatch = &autoMatchThreshold
	}
	if cmd.Flags().Changed("candidate-threshold") {
		overrides.MinConfidenceCandidate = &candidateThreshold
	}
	if cmd.Flags().Changed("allow-cross-currency") {
		overrides.AllowCrossCurrency = &allowCrossCurrency
	}
	if cmd.Flags().Changed("allow-partial-payments") {
		overrides.AllowPartialPayments = &allowPartial
	}
	return overrides
}

func runMatch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, "Starting reconciliation...\n")
		if inputFile != "" {
			fmt.Fprintf(os.Stderr, "Input file: %s\n", inputFile)
		} else {
			fmt.Fprintf(os.Stderr, "Transactions file: %s\n", transactionsFile)
			fmt.Fprintf(os.Stderr, "Documents file: %s\n", documentsFile)
		}
		fmt.Fprintf(os.Stderr, "Output format: %s\n", outputFormat)
		if outputFile != "" {
			fmt.Fprintf(os.Stderr, "Output file: %s\n", outputFile)
		}
	}

	// Load input records
	input, err := loadMatchInput()
	if err != nil {
		return err
	}

	// Layer CLI overrides over loaded preferences
	prefs := config.BuildMatchingPreferences(input.Preferences, collectOverrides(cmd))

	service, err := reconciler.NewService(prefs)
	if err != nil {
		return err
	}

	result, err := service.Reconcile(ctx, input.Transactions, input.Documents)
	if err != nil {
		return err
	}

	// Generate report
	reportConfig := config.CreateReportConfig(outputFormat)
	reportGenerator, err := reporter.NewReportGenerator(reportConfig)
	if err != nil {
		return fmt.Errorf("failed to create report generator: %w", err)
	}

	// Determine output destination
	var output *os.File
	if outputFile != "" {
		output, err = os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer output.Close()
	} else {
		output = os.Stdout
	}

	if err := reportGenerator.GenerateReport(result, output); err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}

	// Show completion message
	if viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, "\nReconciliation completed successfully.\n")
		fmt.Fprintf(os.Stderr, "Processed %d transactions and %d documents.\n",
			result.Summary.TotalTransactions, result.Summary.TotalDocuments)
		fmt.Fprintf(os.Stderr, "Found %d matched pairs, %d ambiguous matches, %d unmatched transactions, %d unmatched documents.\n",
			result.Summary.MatchedPairs, result.Summary.AmbiguousMatches,
			result.Summary.UnmatchedTransactions, result.Summary.UnmatchedDocuments)
	}

	return nil
}

// loadMatchInput assembles the reconciliation input from the configured
// file flags.
func loadMatchInput() (*loader.ReconciliationInput, error) {
	if inputFile != "" {
		input, err := loader.LoadInput(inputFile)
		if err != nil {
			return nil, err
		}
		if preferencesFile != "" {
			prefs, err := loader.LoadPreferences(preferencesFile)
			if err != nil {
				return nil, err
			}
			input.Preferences = prefs
		}
		return input, nil
	}

	transactions, err := loader.LoadTransactions(transactionsFile)
	if err != nil {
		return nil, err
	}
	documents, err := loader.LoadDocuments(documentsFile)
	if err != nil {
		return nil, err
	}

	input := &loader.ReconciliationInput{
		Transactions: transactions,
		Documents:    documents,
	}
	if preferencesFile != "" {
		prefs, err := loader.LoadPreferences(preferencesFile)
		if err != nil {
			return nil, err
		}
		input.Preferences = prefs
	}

	return input, nil
}
