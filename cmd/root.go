package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/tantalor93/dohrank/pkg/dohbench"
	"github.com/tantalor93/dohrank/pkg/printutils"
)

var (
	// Version is set during release of project during build process.
	Version = "development"
)

type options struct {
	servers      serversValue
	serversFile  string
	domains      []string
	verify       bool
	live         int
	liveInterval time.Duration
	prometheus   string
}

var (
	pApp = kingpin.New("dohrank", "Ranks DNS over HTTPS resolvers by the latency of resolving a set of domains.")

	benchmark = dohbench.Benchmark{
		Writer: os.Stdout,
	}

	opts options
)

func init() {
	pApp.Flag("server", "DoH server to test in the form [name=]url[,get|post], for example `google=https://dns.google/resolve,get`. "+
		"Servers using the post method (default) are sent RFC 8484 DNS wire format queries, servers using the get method are sent JSON API queries "+
		"with the name and type URL parameters. Repeatable flag.").
		Short('s').SetValue(&opts.servers)

	pApp.Flag("servers-file", "File with the list of servers to test, either local file or resource accessible using HTTP. "+
		"The file contains JSON or YAML list of objects with name, url and type (get or post) fields.").
		PlaceHolder("/path/to/servers.yaml").StringVar(&opts.serversFile)

	pApp.Flag("doh-protocol", "HTTP protocol to use for DoH requests. Supported values: 1.1, 2 and 3.").
		Default(dohbench.HTTP1Proto).EnumVar(&benchmark.DohProtocol, dohbench.HTTP1Proto, dohbench.HTTP2Proto, dohbench.HTTP3Proto)

	pApp.Flag("insecure", "Disables server TLS certificate validation.").
		Default("false").BoolVar(&benchmark.Insecure)

	pApp.Flag("rate-limit", "Apply a global probes / second rate limit.").
		Short('l').Default("0").IntVar(&benchmark.Rate)

	pApp.Flag("precision", "Significant figure for histogram precision.").
		Default("1").PlaceHolder("[1-5]").IntVar(&benchmark.HistPre)

	pApp.Flag("distribution", "Display distribution histogram of latencies of all servers.").
		Default("false").BoolVar(&benchmark.HistDisplay)

	pApp.Flag("csv", "Export ranking of the servers to CSV.").
		Default("").PlaceHolder("/path/to/file.csv").StringVar(&benchmark.Csv)

	pApp.Flag("json", "Report benchmark results as JSON.").BoolVar(&benchmark.JSON)

	pApp.Flag("silent", "Disable stdout.").Default("false").BoolVar(&benchmark.Silent)

	pApp.Flag("color", "ANSI Color output. Enabled by default.").
		Default("true").BoolVar(&benchmark.Color)

	pApp.Flag("progress", "Show progress bar advanced after each tested server.").
		Default("false").BoolVar(&benchmark.Progress)

	pApp.Flag("plot", "Plot benchmark results and export them to the directory.").
		Default("").PlaceHolder("/path/to/folder").StringVar(&benchmark.PlotDir)

	pApp.Flag("plotf", "Format of graphs. Supported formats: png, jpg, svg.").
		Default(dohbench.DefaultPlotFormat).EnumVar(&benchmark.PlotFormat, "png", "jpg", "svg")

	pApp.Flag("log-requests", "Controls whether the benchmark logs every probe and summary of every server.").
		Default("false").BoolVar(&benchmark.RequestLogEnabled)

	pApp.Flag("log-requests-path", "Specifies path to the file, where the request logs will be logged. If the file exists, "+
		"the logs will be appended to the file. If the file does not exist, the file will be created.").
		Default(dohbench.DefaultRequestLogPath).StringVar(&benchmark.RequestLogPath)

	pApp.Flag("verify", "Resolve the first domain on every server using RFC 8484 before the benchmark and print the response code.").
		Default("false").BoolVar(&opts.verify)

	pApp.Flag("live", "After the report, sample latency of the fastest server the specified number of times.").
		Default("0").IntVar(&opts.live)

	pApp.Flag("live-interval", "Interval between live latency samples.").
		Default(dohbench.DefaultLiveInterval.String()).DurationVar(&opts.liveInterval)

	pApp.Flag("prometheus", "Enables Prometheus metrics endpoint on the specified address. For example :8080.").
		Default("").PlaceHolder(":8080").StringVar(&opts.prometheus)

	pApp.Arg("domains", "Domains to resolve. It can be a local file referenced using @<file-path>, for example @data/domains. "+
		"It can also be resource accessible using HTTP, in that case, the file will be downloaded and saved in-memory. "+
		"Files contain one domain per line.").Required().StringsVar(&opts.domains)
}

// Execute starts main logic of command.
func Execute() {
	pApp.Version(Version)
	kingpin.MustParse(pApp.Parse(os.Args[1:]))

	sigsInt := make(chan os.Signal, 8)
	signal.Notify(sigsInt, syscall.SIGINT)

	defer close(sigsInt)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		_, ok := <-sigsInt
		if !ok {
			// standard exit based on channel close
			return
		}
		fmt.Fprintf(os.Stderr, "\nCancelling benchmark ^C, again to terminate now.\n")
		cancel()
		<-sigsInt
		os.Exit(1)
	}()

	if err := run(ctx, &benchmark, opts); err != nil {
		printutils.ErrFprintf(os.Stderr, "%s\n", err.Error())
		signal.Stop(sigsInt)
		os.Exit(1)
	}
}
