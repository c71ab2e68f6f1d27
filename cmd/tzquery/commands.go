package main

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/go-cmp/cmp"
	"gopkg.in/urfave/cli.v2"

	"github.com/ngrash/go-tzdb/internal/compress"
	"github.com/ngrash/go-tzdb/tzdb"
	"github.com/ngrash/go-tzdb/tztime"
	"github.com/ngrash/go-tzdb/zone"
)

func providerOptions() []tzdb.Option {
	var opts []tzdb.Option
	if cfg.Cache.Disabled {
		opts = append(opts, tzdb.WithoutCache())
	} else {
		opts = append(opts, tzdb.WithCache(cfg.Cache.CacheConfig))
	}
	if cfg.Data.Eager {
		opts = append(opts, tzdb.WithEagerZones())
	}
	return opts
}

func open(path string) (*tzdb.Provider, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := tzdb.Open(b, providerOptions()...)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return p, nil
}

func parseInstant(s string) (tztime.Instant, error) {
	if s == "" || s == "now" {
		return tztime.FromTime(time.Now()), nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return 0, err
	}
	return tztime.FromTime(t), nil
}

func formatInterval(iv zone.Interval) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%-6s %s (standard %s, savings %s)", iv.Name(), iv.WallOffset(), iv.StandardOffset(), iv.Savings())
	fmt.Fprintf(&sb, "\n  from %s", formatBound(iv.Start(), iv.HasStart(), iv.WallOffset()))
	fmt.Fprintf(&sb, "\n  to   %s", formatBound(iv.End(), iv.HasEnd(), iv.WallOffset()))
	return sb.String()
}

func formatBound(i tztime.Instant, bounded bool, wall tztime.Offset) string {
	if !bounded {
		return "unbounded"
	}
	return fmt.Sprintf("%v (local %v)", i, i.SafePlus(wall))
}

func runResolve(c *cli.Context) error {
	if c.Args().Len() < 1 || c.Args().Len() > 2 {
		return fmt.Errorf("expected <zone> [time], but got %s", c.Args())
	}
	at, err := parseInstant(c.Args().Get(1))
	if err != nil {
		return err
	}
	p, err := open(cfg.Data.Path)
	if err != nil {
		return err
	}
	id := c.Args().Get(0)
	iv, err := p.Resolve(id, at)
	if err != nil {
		return err
	}
	canonical, _ := p.CanonicalID(id)
	fmt.Printf("%s at %v\n", canonical, at)
	fmt.Println(formatInterval(iv))
	return nil
}

func runIntervals(c *cli.Context) error {
	if c.Args().Len() != 3 {
		return fmt.Errorf("expected <zone> <from> <to>, but got %s", c.Args())
	}
	from, err := parseInstant(c.Args().Get(1))
	if err != nil {
		return err
	}
	to, err := parseInstant(c.Args().Get(2))
	if err != nil {
		return err
	}
	p, err := open(cfg.Data.Path)
	if err != nil {
		return err
	}
	rs, err := p.Zone(c.Args().Get(0))
	if err != nil {
		return err
	}
	intervals := zone.Intervals(rs, from, to)
	for _, iv := range intervals {
		fmt.Println(formatInterval(iv))
	}
	fmt.Println(humanize.Comma(int64(len(intervals))), "intervals")
	return nil
}

func runInfo(c *cli.Context) error {
	b, err := os.ReadFile(cfg.Data.Path)
	if err != nil {
		return err
	}
	format := "container"
	size := len(b)
	if tzdb.IsPacked(b) {
		container, t, err := tzdb.Unpack(b)
		if err != nil {
			return err
		}
		format = fmt.Sprintf("%v envelope", t)
		size = len(container)
	}
	p, err := tzdb.Open(b, providerOptions()...)
	if err != nil {
		return err
	}
	wz := p.WindowsZones()
	fmt.Println("File", cfg.Data.Path)
	fmt.Println("  format       =", format)
	fmt.Println("  size         =", humanize.Bytes(uint64(len(b))), "stored,", humanize.Bytes(uint64(size)), "decoded")
	fmt.Println("  tzdb version =", p.Version())
	fmt.Println("  zones        =", humanize.Comma(int64(len(p.IDs()))))
	fmt.Println("  aliases      =", humanize.Comma(int64(len(p.Aliases()))))
	fmt.Println("Windows zones")
	fmt.Println("  version         =", wz.Version)
	fmt.Println("  tzdb version    =", wz.TzdbVersion)
	fmt.Println("  windows version =", wz.WindowsVersion)
	fmt.Println("  mappings        =", humanize.Comma(int64(len(wz.MapZones))))
	fmt.Println("Locations")
	fmt.Println("  zone.tab     =", humanize.Comma(int64(len(p.ZoneLocations()))))
	fmt.Println("  zone1970.tab =", humanize.Comma(int64(len(p.Zone1970Locations()))))
	return nil
}

func runDiff(c *cli.Context) error {
	if c.Args().Len() != 2 {
		return fmt.Errorf("expected <file A> <file B>, but got %s", c.Args())
	}
	var data [2]*tzdb.Data
	for i := range data {
		p, err := open(c.Args().Get(i))
		if err != nil {
			return err
		}
		if data[i], err = p.Data(); err != nil {
			return err
		}
	}
	if diff := cmp.Diff(data[0], data[1], cmp.Comparer(zone.Equal)); diff != "" {
		fmt.Println("files are different: -A +B")
		fmt.Println(diff)
	} else {
		fmt.Println("files are identical")
	}
	return nil
}

func runPack(c *cli.Context) error {
	if c.Args().Len() != 2 {
		return fmt.Errorf("expected <input> <output>, but got %s", c.Args())
	}
	compression := cfg.Data.Compression
	if s := c.String(argCompression); s != "" {
		compression = s
	}
	t, err := compress.ParseType(compression)
	if err != nil {
		return err
	}

	in, out := c.Args().Get(0), c.Args().Get(1)
	b, err := os.ReadFile(in)
	if err != nil {
		return err
	}
	container := b
	if tzdb.IsPacked(b) {
		if container, _, err = tzdb.Unpack(b); err != nil {
			return err
		}
	}
	if c.Bool(argReencode) {
		if container, err = reencode(container); err != nil {
			return err
		}
	}
	result := container
	if !c.Bool(argUnpack) {
		if result, err = tzdb.Pack(container, t); err != nil {
			return err
		}
	}
	if err := os.WriteFile(out, result, 0o644); err != nil {
		return err
	}
	logger.Info("Wrote ", out, ", ", humanize.Bytes(uint64(len(b))), " -> ", humanize.Bytes(uint64(len(result))))
	fmt.Printf("%s: %s -> %s: %s\n", in, humanize.Bytes(uint64(len(b))), out, humanize.Bytes(uint64(len(result))))
	return nil
}

func reencode(container []byte) ([]byte, error) {
	p, err := tzdb.Decode(container, tzdb.WithoutCache())
	if err != nil {
		return nil, err
	}
	d, err := p.Data()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := tzdb.Encode(&buf, d, tzdb.EncodeOptions{Pooled: true}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
