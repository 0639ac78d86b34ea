package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"golang.org/x/term"

	"github.com/wippyai/binstruct"
)

func main() {
	var (
		schemaStr   = flag.String("schema", "", "Field declarations (name=Type,name2=Type2,...)")
		inFile      = flag.String("in", "", "Binary file to decode")
		outFile     = flag.String("out", "", "Write encoded output to file")
		jsonObj     = flag.String("json", "", "JSON object to encode against the schema")
		hexDump     = flag.Bool("hex", false, "Print a hex dump of the input")
		asJSON      = flag.Bool("j", false, "Print decoded fields as JSON")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *schemaStr == "" {
		fmt.Fprintln(os.Stderr, "Usage: binspect -schema name=Type,... -in <file> [-hex] [-j]")
		fmt.Fprintln(os.Stderr, "       binspect -schema name=Type,... -json '{...}' -out <file>")
		fmt.Fprintln(os.Stderr, "       binspect -schema name=Type,... -in <file> -i  (interactive mode)")
		os.Exit(1)
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode requires a terminal")
			os.Exit(1)
		}
		if err := runInteractive(*schemaStr, *inFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(*schemaStr, *inFile, *outFile, *jsonObj, *hexDump, *asJSON); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(schemaStr, inFile, outFile, jsonObj string, hexDump, asJSON bool) error {
	s, err := parseSchema(schemaStr)
	if err != nil {
		return err
	}

	fmt.Printf("Schema: %d fields, %d bytes static", len(s.Schema().Fields), s.Size())
	if s.HasDynamicFields() {
		fmt.Print(" (dynamic)")
	}
	fmt.Println()

	if jsonObj != "" {
		return encode(s, jsonObj, outFile)
	}
	if inFile == "" {
		return fmt.Errorf("either -in or -json is required")
	}
	return decode(s, inFile, hexDump, asJSON)
}

func decode(s *binstruct.Struct, inFile string, hexDump, asJSON bool) error {
	data, err := os.ReadFile(inFile)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	obj, err := s.ToObject(data)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	if hexDump {
		fmt.Printf("\n%s\n", hexdump(data))
	}

	if asJSON {
		out, err := json.MarshalIndent(obj, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal: %w", err)
		}
		fmt.Printf("\n%s\n", out)
		return nil
	}

	fmt.Printf("\nDecoded fields:\n")
	names := s.Schema().FieldNames()
	width := 0
	for _, n := range names {
		if len(n) > width {
			width = len(n)
		}
	}
	for _, n := range names {
		fmt.Printf("  %-*s  %v\n", width, n, formatValue(obj[n]))
	}
	return nil
}

func encode(s *binstruct.Struct, jsonObj, outFile string) error {
	var obj map[string]any
	if err := json.Unmarshal([]byte(jsonObj), &obj); err != nil {
		return fmt.Errorf("parse json: %w", err)
	}

	buf, err := s.ToBuffer(obj)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	if outFile != "" {
		if err := os.WriteFile(outFile, buf, 0o644); err != nil {
			return fmt.Errorf("write file: %w", err)
		}
		fmt.Printf("Wrote %d bytes to %s\n", len(buf), outFile)
		return nil
	}

	fmt.Printf("\n%s\n", hexdump(buf))
	return nil
}

// parseSchema turns "id=UInt16BE,flags=UInt8:4,name=String[8]" into a
// compiled struct. The = separator keeps the : free for bit widths.
func parseSchema(s string) (*binstruct.Struct, error) {
	var fields []binstruct.Field
	for _, decl := range strings.Split(s, ",") {
		decl = strings.TrimSpace(decl)
		if decl == "" {
			continue
		}
		parts := strings.SplitN(decl, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("malformed declaration %q (want name=Type)", decl)
		}
		fields = append(fields, binstruct.F(strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])))
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("schema has no fields")
	}
	return binstruct.NewStruct(fields...)
}

func sortedKeys(obj map[string]any) []string {
	names := make([]string, 0, len(obj))
	for n := range obj {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func formatValue(v any) string {
	switch t := v.(type) {
	case string:
		return fmt.Sprintf("%q", t)
	case map[string]any:
		var parts []string
		for _, k := range sortedKeys(t) {
			parts = append(parts, k+"="+formatValue(t[k]))
		}
		return "{" + strings.Join(parts, " ") + "}"
	case []map[string]any:
		var parts []string
		for _, e := range t {
			parts = append(parts, formatValue(e))
		}
		return "[" + strings.Join(parts, " ") + "]"
	default:
		return fmt.Sprintf("%v", v)
	}
}

func hexdump(data []byte) string {
	var b strings.Builder
	for off := 0; off < len(data); off += 16 {
		end := off + 16
		if end > len(data) {
			end = len(data)
		}
		row := data[off:end]

		fmt.Fprintf(&b, "%08x  ", off)
		for i := 0; i < 16; i++ {
			if i < len(row) {
				fmt.Fprintf(&b, "%02x ", row[i])
			} else {
				b.WriteString("   ")
			}
			if i == 7 {
				b.WriteByte(' ')
			}
		}
		b.WriteString(" |")
		for _, c := range row {
			if c < 32 || c > 126 {
				c = '.'
			}
			b.WriteByte(c)
		}
		b.WriteString("|\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
