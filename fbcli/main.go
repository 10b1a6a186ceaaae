// fbcli is an interactive tool for inspecting font-fallback decisions.
//
// It loads one or more font files into a prioritized collection and then
// reads lines from a REPL: plain text is itemized into font runs, commands
// starting with ':' query the collection directly. Quit with <ctrl>D.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/fontfallback"
	"github.com/npillmayer/fontfallback/family"
	"github.com/npillmayer/fontfallback/lang"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
)

// tracer traces with key 'fontfallback'
func tracer() tracing.Trace {
	return tracing.Select("fontfallback")
}

func main() {
	initDisplay()

	// set up logging
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":    "go",
		"trace.fontfallback": "Info",
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Printf("error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())

	// command line flags
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	fontlist := flag.String("fonts", "", "Comma-separated font files, in fallback priority order")
	langspec := flag.String("lang", "", "Comma-separated preferred languages (BCP-47)")
	flag.Parse()
	switch *tlevel {
	case "Debug":
		tracer().SetTraceLevel(tracing.LevelDebug)
	case "Info":
		tracer().SetTraceLevel(tracing.LevelInfo)
	case "Error":
		tracer().SetTraceLevel(tracing.LevelError)
	default:
		tracer().Errorf("Invalid trace level: %s", *tlevel)
		os.Exit(5)
	}
	pterm.Info.Println("Welcome to the font-fallback CLI")
	//
	// build the collection from the font files given on the command line
	coll, err := loadCollection(*fontlist)
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(4)
	}
	style := family.DefaultStyle
	style.LangList = lang.MakeList(*langspec)
	//
	// set up REPL
	repl, err := readline.New("fb > ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	pterm.Info.Println("Type text to itemize it. Quit with <ctrl>D")
	for {
		line, err := repl.Readline()
		if err != nil { // io.EOF on ctrl-D
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		printRuns(coll, line, style)
	}
}

// loadCollection loads each font file as a single-face family, in priority
// order, and builds a collection from them.
func loadCollection(fontlist string) (*fontfallback.Collection, error) {
	var families []*family.Family
	for _, path := range strings.Split(fontlist, ",") {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		fam, err := fontfallback.LoadFamily(path, family.DefaultStyle)
		if err != nil {
			return nil, fmt.Errorf("cannot load font %s: %w", path, err)
		}
		pterm.Printf("loaded family %q\n", fam.Name())
		families = append(families, fam)
	}
	if len(families) == 0 {
		return nil, fmt.Errorf("no fonts given; use -fonts <file>[,<file>...]")
	}
	return fontfallback.New(families)
}

// printRuns itemizes a line of text and prints one table row per run.
func printRuns(coll *fontfallback.Collection, line string, style family.Style) {
	runs := coll.ItemizeString(line, style)
	data := pterm.TableData{{"run", "start", "end", "font", "faked"}}
	for i, run := range runs {
		name := "<none>"
		if !run.Font.IsNull() {
			name = run.Font.Font.Name()
		}
		faked := ""
		if run.Font.FakeBold {
			faked += "bold "
		}
		if run.Font.FakeItalic {
			faked += "italic"
		}
		data = append(data, []string{
			fmt.Sprintf("%d", i),
			fmt.Sprintf("%d", run.Start),
			fmt.Sprintf("%d", run.End),
			name,
			faked,
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}
