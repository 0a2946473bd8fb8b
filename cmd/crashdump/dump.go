package main

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"crashtrack-go/crashlog"
	"crashtrack-go/errcode"
	"crashtrack-go/monitor"
	"crashtrack-go/nvm"
	"crashtrack-go/watchdog"
	"crashtrack-go/x/conv"

	"gopkg.in/yaml.v3"
)

// Log is a decoded crash log.
type Log struct {
	SavedReports int     `yaml:"saved_reports"`
	NextReport   int     `yaml:"next_report"`
	Reports      []Entry `yaml:"reports"`
}

type Entry struct {
	Slot        int    `yaml:"slot"`
	WordAddress string `yaml:"word_address"`
	ByteAddress string `yaml:"byte_address"`
	Data        string `yaml:"data"`
}

func hex(v uint32) string { return "0x" + strconv.FormatUint(uint64(v), 16) }

// imageMonitor opens a monitor over an EEPROM image. The watchdog is inert.
func imageMonitor(img []byte, l crashlog.Layout) (*monitor.Monitor, error) {
	if len(img) < l.End() {
		return nil, &errcode.E{
			C:   errcode.ShortImage,
			Op:  "image",
			Msg: fmt.Sprintf("%d bytes, layout needs %d", len(img), l.End()),
		}
	}
	cfg := monitor.Config{BaseAddress: l.Base, MaxEntries: l.MaxEntries, PCSize: l.PCSize}
	return monitor.New(cfg, nvm.NewMemFromImage(img), watchdog.NewSim(), nil), nil
}

// logFromMonitor reads every saved report.
func logFromMonitor(m *monitor.Monitor) Log {
	h := m.Header()
	pc := m.Layout().PCSize
	lg := Log{SavedReports: int(h.SavedReports), NextReport: int(h.NextReport)}
	m.Reports(func(slot int, r crashlog.Report) {
		lg.Reports = append(lg.Reports, Entry{
			Slot:        slot,
			WordAddress: hex(r.ProgramAddress(pc)),
			ByteAddress: hex(r.ByteAddress(pc)),
			Data:        hex(r.Data),
		})
	})
	return lg
}

var reportLine = regexp.MustCompile(
	`^(\d+): word-address=0x([0-9A-Fa-f]+): byte-address=0x([0-9A-Fa-f]+), data=0x([0-9A-Fa-f]+)$`)

// ParseDump extracts the crash log from console text. Lines that are not part
// of the dump are skipped. seen is false when no dump was printed, which the
// device does when it has no reports.
func ParseDump(r io.Reader) (lg Log, seen bool, err error) {
	sc := bufio.NewScanner(r)
	in := false
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "Application Monitor":
			lg, in, seen = Log{}, true, true
		case !in:
		case strings.HasPrefix(line, "Saved reports: "):
			lg.SavedReports, err = strconv.Atoi(strings.TrimPrefix(line, "Saved reports: "))
		case strings.HasPrefix(line, "Next report: "):
			lg.NextReport, err = strconv.Atoi(strings.TrimPrefix(line, "Next report: "))
		default:
			m := reportLine.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			// Slots index a ring of at most 254 entries.
			slot, perr := strconv.ParseUint(m[1], 10, 8)
			word, ok1 := conv.ParseHex(m[2])
			byteAddr, ok2 := conv.ParseHex(m[3])
			data, ok3 := conv.ParseHex(m[4])
			if perr != nil || !ok1 || !ok2 || !ok3 {
				return lg, seen, &errcode.E{C: errcode.InvalidDump, Op: "parse", Msg: line}
			}
			lg.Reports = append(lg.Reports, Entry{
				Slot:        int(slot),
				WordAddress: hex(word),
				ByteAddress: hex(byteAddr),
				Data:        hex(data),
			})
		}
		if err != nil {
			return lg, seen, errcode.Wrap(errcode.InvalidDump, "parse", err)
		}
	}
	if err := sc.Err(); err != nil {
		return lg, seen, err
	}
	if seen && len(lg.Reports) != lg.SavedReports {
		return lg, seen, &errcode.E{
			C:   errcode.InvalidDump,
			Op:  "parse",
			Msg: fmt.Sprintf("header says %d reports, found %d", lg.SavedReports, len(lg.Reports)),
		}
	}
	return lg, seen, nil
}

// writeText prints lg the way the device does.
func writeText(w io.Writer, lg Log) {
	fmt.Fprintln(w, "Application Monitor")
	fmt.Fprintln(w, "-------------------")
	fmt.Fprintf(w, "Saved reports: %d\n", lg.SavedReports)
	fmt.Fprintf(w, "Next report: %d\n", lg.NextReport)
	for _, e := range lg.Reports {
		fmt.Fprintf(w, "%d: word-address=%s: byte-address=%s, data=%s\n",
			e.Slot, upperHex(e.WordAddress), upperHex(e.ByteAddress), upperHex(e.Data))
	}
}

func upperHex(s string) string { return "0x" + strings.ToUpper(strings.TrimPrefix(s, "0x")) }

func writeYAML(w io.Writer, lg Log) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(lg); err != nil {
		return err
	}
	return enc.Close()
}
