package probe

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Capability identifies one external source the engine may consult.
type Capability string

const (
	// CapAlways gates steps with no external dependency.
	CapAlways Capability = "always"

	// CapReport means the structured system report was fetched and cached.
	CapReport Capability = "report"

	// CapReportJSON means the cached report parses as JSON, so structured
	// queries can be used instead of pattern matching.
	CapReportJSON Capability = "report-json"

	CapLsblk      Capability = "lsblk"
	CapLspci      Capability = "lspci"
	CapXrandr     Capability = "xrandr"
	CapEDIDDecode Capability = "edid-decode"
	CapUpower     Capability = "upower"

	// Kernel pseudo-file trees.
	CapDMI     Capability = "sys-dmi"
	CapProc    Capability = "proc"
	CapBattery Capability = "power-supply"
	CapDRM     Capability = "drm"
	CapBlock   Capability = "block"

	// CapSysinfo gates the gopsutil-backed fallbacks, which only describe
	// the machine the process runs on.
	CapSysinfo Capability = "sysinfo"
)

// Capabilities is the read-only result of a probe run: which sources are
// usable, plus the one-shot cached artifacts shared by all chains.
type Capabilities struct {
	avail   map[Capability]bool
	report  []byte
	battery string
}

// Has reports whether the capability was found usable. CapAlways is usable
// by definition.
func (c *Capabilities) Has(cap Capability) bool {
	if cap == CapAlways {
		return true
	}
	return c.avail[cap]
}

// Report returns the cached structured-report blob, nil when CapReport is
// absent.
func (c *Capabilities) Report() []byte {
	return c.report
}

// BatteryPath returns the sysfs directory of the first battery, "" when
// CapBattery is absent.
func (c *Capabilities) BatteryPath() string {
	return c.battery
}

// Prober determines, once per run, which sources are usable.
type Prober struct {
	runner  CommandRunner
	fs      FileReader
	tools   map[string]string
	timeout time.Duration
	local   bool
	log     *logrus.Entry
}

// NewProber creates a capability prober. tools maps tool names to override
// paths and may be nil. local distinguishes the host the process runs on
// from a remote target; process-local fallbacks are only offered for the
// former.
func NewProber(runner CommandRunner, fs FileReader, tools map[string]string, timeout time.Duration, local bool, log *logrus.Entry) *Prober {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Prober{
		runner:  runner,
		fs:      fs,
		tools:   tools,
		timeout: timeout,
		local:   local,
		log:     log,
	}
}

// Probe tests every known source exactly once. Individual failures mark the
// capability absent and never abort the run.
func (p *Prober) Probe(ctx context.Context) *Capabilities {
	caps := &Capabilities{avail: make(map[Capability]bool)}

	for cap, tool := range map[Capability]string{
		CapLsblk:      "lsblk",
		CapLspci:      "lspci",
		CapXrandr:     "xrandr",
		CapEDIDDecode: "edid-decode",
		CapUpower:     "upower",
	} {
		caps.avail[cap] = p.runner.LookPath(p.toolPath(tool))
	}

	p.probeReport(ctx, caps)

	caps.avail[CapDMI] = p.treeExists("/sys/class/dmi/id/*")
	caps.avail[CapDRM] = p.treeExists("/sys/class/drm/card*")
	caps.avail[CapBlock] = p.treeExists("/sys/block/*")

	if _, err := p.fs.ReadFile("/proc/cpuinfo"); err == nil {
		caps.avail[CapProc] = true
	}

	if matches, err := p.fs.Glob("/sys/class/power_supply/BAT*"); err == nil && len(matches) > 0 {
		caps.avail[CapBattery] = true
		caps.battery = matches[0]
	}

	caps.avail[CapSysinfo] = p.local

	if p.log.Logger.IsLevelEnabled(logrus.DebugLevel) {
		var present, absent []string
		for cap, ok := range caps.avail {
			if ok {
				present = append(present, string(cap))
			} else {
				absent = append(absent, string(cap))
			}
		}
		p.log.WithFields(logrus.Fields{
			"present": strings.Join(present, ","),
			"absent":  strings.Join(absent, ","),
		}).Debug("capability probe complete")
	}

	return caps
}

// probeReport fetches the structured system report once and caches it. The
// report tool is invoked with read-only flags; any failure just leaves the
// capability absent.
func (p *Prober) probeReport(ctx context.Context, caps *Capabilities) {
	lshw := p.toolPath("lshw")
	if !p.runner.LookPath(lshw) {
		return
	}

	runCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	out, exitCode, err := p.runner.Run(runCtx, lshw, "-json", "-quiet")
	if err != nil || exitCode != 0 || strings.TrimSpace(out) == "" {
		p.log.WithField("exit_code", exitCode).Debug("structured report unavailable")
		return
	}

	caps.avail[CapReport] = true
	caps.report = []byte(out)

	// Structured queries need a well-formed document; a truncated or
	// otherwise malformed report degrades to pattern extraction.
	if json.Valid(caps.report) {
		caps.avail[CapReportJSON] = true
	} else {
		p.log.Debug("structured report is not valid JSON, using pattern extraction")
	}
}

func (p *Prober) toolPath(name string) string {
	if p.tools != nil {
		if path, ok := p.tools[name]; ok && path != "" {
			return path
		}
	}
	return name
}

func (p *Prober) treeExists(pattern string) bool {
	matches, err := p.fs.Glob(pattern)
	return err == nil && len(matches) > 0
}
