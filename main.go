package main

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"github.com/hesusruiz/hrml/hrml"
	"github.com/hesusruiz/vcutils/yaml"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

const stdinName = "-"

// settings merges the command line flags with the optional configuration file.
// Flags set explicitly on the command line win.
type settings struct {
	normalize    bool
	codeStyle    string
	formatter    string
	diagramTheme string
	log          *zap.SugaredLogger
}

// newLogger sets up the logging system, verbose in debug mode.
func newLogger(debug bool) (*zap.SugaredLogger, error) {
	var z *zap.Logger
	var err error

	if debug {
		z, err = zap.NewDevelopment()
	} else {
		z, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}

	return z.Sugar(), nil
}

// loadSettings reads the configuration file, if any, and applies the flags over it.
func loadSettings(c *cli.Context) (*settings, error) {
	sugar, err := newLogger(c.Bool("debug"))
	if err != nil {
		return nil, err
	}

	// Initialise the config just in case we do not have a file
	config, err := yaml.ParseYaml("")
	if err != nil {
		return nil, err
	}

	if configFile := c.String("config"); len(configFile) > 0 {
		config, err = yaml.ParseYamlFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", configFile, err)
		}
		sugar.Debugw("config file loaded", "file", configFile)
	}

	st := &settings{
		normalize:    config.Bool("hrml.normalize"),
		codeStyle:    config.String("hrml.codeStyle", "monokai"),
		formatter:    config.String("hrml.formatter", "terminal256"),
		diagramTheme: config.String("hrml.diagramTheme", "neutral"),
		log:          sugar,
	}

	if c.IsSet("normalize") {
		st.normalize = c.Bool("normalize")
	}
	if c.IsSet("style") {
		st.codeStyle = c.String("style")
	}
	if c.IsSet("format") {
		st.formatter = c.String("format")
	}
	if c.IsSet("theme") {
		st.diagramTheme = c.String("theme")
	}

	return st, nil
}

func (st *settings) options() hrml.Options {
	return hrml.Options{
		Normalize: st.normalize,
		Logger:    st.log,
	}
}

// inputFile returns the input file name from the arguments, or "-" for stdin.
func inputFile(c *cli.Context) string {
	if c.Args().Present() {
		return c.Args().First()
	}
	return stdinName
}

// openInput opens the named file, or stdin for "-".
func openInput(fileName string) (io.ReadCloser, error) {
	if fileName == stdinName {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(fileName)
}

// writeOutput writes data to the named file, or to stdout if the name is empty.
func writeOutput(outputFileName string, data []byte) error {
	if len(outputFileName) == 0 {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(outputFileName, data, 0664)
}

// runQueries processes a complete input and returns the answers.
func runQueries(inputFileName string, opts hrml.Options) ([]byte, error) {
	in, err := openInput(inputFileName)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	var out bytes.Buffer
	if err := hrml.Run(inputFileName, bufio.NewReader(in), &out, opts); err != nil {
		return out.Bytes(), err
	}
	return out.Bytes(), nil
}

// processWatch checks periodically if the input file has been modified, and if so
// it answers the queries again and writes the result to the output.
func processWatch(ctx context.Context, inputFileName string, outputFileName string, st *settings) error {

	var oldTimestamp time.Time

	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {

		// Get the modified timestamp of the input file
		info, err := os.Stat(inputFileName)
		if err != nil {
			return err
		}

		// If current modified timestamp is newer than the previous timestamp, process the file
		if oldTimestamp.Before(info.ModTime()) {
			oldTimestamp = info.ModTime()
			st.log.Infow("processing", "file", inputFileName)

			answers, err := runQueries(inputFileName, st.options())
			if err != nil {
				// Keep watching, the user is probably still editing the file
				st.log.Errorw("processing failed", "file", inputFileName, "error", err)
			} else if err := writeOutput(outputFileName, answers); err != nil {
				return err
			}
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// process is the main entry point of the program: it answers the queries of the input
func process(c *cli.Context) error {

	st, err := loadSettings(c)
	if err != nil {
		return err
	}
	defer st.log.Sync()

	inputFileName := inputFile(c)
	outputFileName := c.String("output")

	// If the user specified to watch, loop forever processing the input file when modified
	if c.Bool("watch") {
		if inputFileName == stdinName {
			return fmt.Errorf("watch needs an input file")
		}
		return processWatch(c.Context, inputFileName, outputFileName, st)
	}

	answers, err := runQueries(inputFileName, st.options())

	// Answers to the queries before a malformed one are still written
	if err == nil || len(answers) > 0 {
		if werr := writeOutput(outputFileName, answers); werr != nil && err == nil {
			err = werr
		}
	}
	if err != nil {
		st.log.Errorw("processing failed", "file", inputFileName, "error", err)
		return err
	}

	return nil
}

// parseInput reads the line counts and the structure block of the input.
func parseInput(inputFileName string, opts hrml.Options) (*hrml.Document, error) {
	if inputFileName != stdinName {
		return hrml.ParseFromFile(inputFileName, opts)
	}
	src, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, err
	}
	return hrml.ParseFromBytes(inputFileName, src, opts)
}

// dump writes the parsed tree back as a structure block preceded by its line counts,
// so the output is itself a valid input without queries.
func dump(c *cli.Context) error {

	st, err := loadSettings(c)
	if err != nil {
		return err
	}
	defer st.log.Sync()

	inputFileName := inputFile(c)

	doc, err := parseInput(inputFileName, st.options())
	if err != nil {
		st.log.Errorw("parsing failed", "file", inputFileName, "error", err)
		return err
	}

	var markup strings.Builder
	fmt.Fprintf(&markup, "%d 0\n", doc.CountLines())
	if err := doc.Render(&markup, c.Bool("indent")); err != nil {
		return err
	}

	if !c.Bool("color") {
		return writeOutput(c.String("output"), []byte(markup.String()))
	}

	var out bytes.Buffer
	if err := hrml.Highlight(&out, markup.String(), st.codeStyle, st.formatter); err != nil {
		return err
	}
	return writeOutput(c.String("output"), out.Bytes())
}

// diagram renders the parsed tree as an SVG image.
func diagram(c *cli.Context) error {

	st, err := loadSettings(c)
	if err != nil {
		return err
	}
	defer st.log.Sync()

	inputFileName := inputFile(c)

	doc, err := parseInput(inputFileName, st.options())
	if err != nil {
		st.log.Errorw("parsing failed", "file", inputFileName, "error", err)
		return err
	}

	// Print the D2 source instead of the image if requested
	if c.Bool("source") {
		return writeOutput(c.String("output"), []byte(doc.DiagramSource()))
	}

	themeID, ok := hrml.DiagramThemes[st.diagramTheme]
	if !ok {
		return fmt.Errorf("unknown diagram theme %q", st.diagramTheme)
	}

	// Generate the output file name
	outputFileName := c.String("output")
	if len(outputFileName) == 0 {
		if inputFileName == stdinName {
			return fmt.Errorf("diagram needs an output file when reading stdin")
		}
		ext := path.Ext(inputFileName)
		outputFileName = strings.TrimSuffix(inputFileName, ext) + ".svg"
	}

	svg, err := doc.DiagramSVG(c.Context, themeID)
	if err != nil {
		return err
	}

	st.log.Infow("writing diagram", "file", outputFileName)
	return writeOutput(outputFileName, svg)
}

func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "write the result to `FILE` (default is stdout)",
	}
}

func main() {

	app := &cli.App{
		Name:     "hrml",
		Version:  "v0.1.0",
		Compiled: time.Now(),
		Authors: []*cli.Author{
			{
				Name:  "Jesus Ruiz",
				Email: "hesus.ruiz@gmail.com",
			},
		},
		Usage:     "parse an HRML document and answer attribute queries",
		UsageText: "hrml [options] [INPUT_FILE] (default input is stdin)",
		Action:    process,
		Flags: []cli.Flag{
			outputFlag(),
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "read settings from the YAML `FILE`",
			},
			&cli.BoolFlag{
				Name:    "normalize",
				Aliases: []string{"n"},
				Usage:   "accept attributes written as key=\"value\", without blanks around '='",
			},
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"d"},
				Usage:   "run in debug mode",
			},
			&cli.BoolFlag{
				Name:    "watch",
				Aliases: []string{"w"},
				Usage:   "watch the input file for changes",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "dump",
				Usage:     "print the parsed tag tree as HRML",
				ArgsUsage: "[INPUT_FILE]",
				Action:    dump,
				Flags: []cli.Flag{
					outputFlag(),
					&cli.BoolFlag{
						Name:  "indent",
						Usage: "indent nested tags",
					},
					&cli.BoolFlag{
						Name:  "color",
						Usage: "highlight the output",
					},
					&cli.StringFlag{
						Name:  "style",
						Usage: "highlighting `STYLE` (default monokai)",
					},
					&cli.StringFlag{
						Name:  "format",
						Usage: "highlighting `FORMATTER`: terminal256, terminal16m, html (default terminal256)",
					},
				},
			},
			{
				Name:      "diagram",
				Usage:     "draw the parsed tag tree as an SVG image",
				ArgsUsage: "[INPUT_FILE]",
				Action:    diagram,
				Flags: []cli.Flag{
					outputFlag(),
					&cli.StringFlag{
						Name:  "theme",
						Usage: "diagram `THEME`: neutral or grey (default neutral)",
					},
					&cli.BoolFlag{
						Name:  "source",
						Usage: "print the D2 source instead of the image",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

}
