//
//   date  : 2016-02-18
//   author: xjdrew
//

package main

import (
	"bufio"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xjdrew/ipnat"
	"github.com/xjdrew/ipnat/internal"
)

var VERSION = "0.1-dev"

var logger = internal.GetLogger()

// rewrite reads one hex encoded packet per line from r and writes the
// rewritten packets to w in the same form.
func rewrite(rewriter *ipnat.Rewriter, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1<<20)

	out := bufio.NewWriter(w)

	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		packet, err := hex.DecodeString(strings.Join(strings.Fields(line), ""))
		if err != nil {
			logger.Warningf("line %d: invalid hex: %v", lineno, err)
			continue
		}

		packet, ok := rewriter.Rewrite(packet)
		if ok {
			logger.Debugf("line %d: rewritten", lineno)
		}
		if _, err := fmt.Fprintln(out, hex.EncodeToString(packet)); err != nil {
			return err
		}
	}
	if err := out.Flush(); err != nil {
		return err
	}
	return scanner.Err()
}

func main() {
	version := flag.Bool("version", false, "Get version info")
	debug := flag.Bool("debug", false, "Print debug info")
	config := flag.String("config", "config.ini", "config file")
	input := flag.String("input", "", "hex packet file, default stdin")
	flag.Parse()

	if *version {
		fmt.Printf("Version: %s\n", VERSION)
		os.Exit(1)
	}

	configFile := *config
	if configFile == "" {
		configFile = flag.Arg(0)
	}
	logger.Infof("using config file: %v", configFile)

	cfg, err := ipnat.ParseConfig(configFile)
	if err != nil {
		logger.Error(err.Error())
		os.Exit(2)
	}

	if *debug {
		internal.InitLogger("debug")
	} else {
		internal.InitLogger(cfg.General.LogLevel)
	}

	rewriter, err := ipnat.FromConfig(cfg)
	if err != nil {
		logger.Error(err.Error())
		os.Exit(3)
	}

	var r io.Reader = os.Stdin
	if *input != "" {
		f, err := os.Open(*input)
		if err != nil {
			logger.Error(err.Error())
			os.Exit(2)
		}
		defer f.Close()
		r = f
	}

	if err := rewrite(rewriter, r, os.Stdout); err != nil {
		logger.Error(err.Error())
		os.Exit(4)
	}

	stats := rewriter.Stats()
	logger.Infof("rewritten %d, passed %d, rejected %d", stats.Rewritten, stats.Passed, stats.Rejected)
}
