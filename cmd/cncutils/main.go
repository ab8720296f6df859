package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"sort"
)

var commands = map[string]struct {
	run  func(a *app, args []string) error
	help string
}{
	"cherrymx": {(*app).cherryMX, "Cut a Cherry MX switch hole at the current position."},
	"circle":   {(*app).circle, "Profile a circular hole with helical passes."},
	"polygon":  {(*app).polygon, "Profile a closed polygon."},
	"drill":    {(*app).drill, "Drill in place or at a list of points."},
	"curve":    {(*app).curve, "Follow a Bezier curve."},
	"probe":    {(*app).probe, "Probe a grid on the machine and store it for -level."},
	"send":     {(*app).send, "Stream a g-code file to the machine."},
	"serve":    {(*app).serve, "Run the HTTP program generation server."},
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "Usage: %s [-config file] <command> [flags]\n\nCommands:\n", os.Args[0])
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "  %-10s %s\n", name, commands[name].help)
	}
	fmt.Fprintln(out, "\nFlags:")
	flag.PrintDefaults()
}

func main() {
	log.SetFlags(log.Lshortfile)

	configPath := flag.String("config", "cncutils.yaml", "YAML file with job defaults, serial settings and probe data.")
	flag.Usage = usage
	flag.Parse()

	var explicit bool
	flag.Visit(func(f *flag.Flag) { explicit = explicit || f.Name == "config" })

	cfg, err := loadConfig(*configPath, explicit)
	if err != nil {
		log.Fatal("ERROR: load config: ", err)
	}

	cmd, ok := commands[flag.Arg(0)]
	if !ok {
		flag.Usage()
		os.Exit(2)
	}

	a := &app{cfg: cfg, configPath: *configPath, stdout: os.Stdout}
	err = cmd.run(a, flag.Args()[1:])
	if err != nil {
		log.Fatalf("ERROR: %s: %v", flag.Arg(0), err)
	}
}

func (a *app) serve(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", a.cfg.Serve.Addr, "Address to bind the server to.")
	dir := fs.String("dir", a.cfg.Serve.Dir, "Data directory to use.")
	fs.Parse(args)

	cfg := a.cfg
	cfg.Serve.Addr = *addr
	cfg.Serve.Dir = *dir

	api := newAPI(cfg)
	defer api.Close()

	log.Println("listening on", *addr)
	return http.ListenAndServe(*addr, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "*")
		log.Printf("%s %s - %s", req.Method, req.URL.Path, req.RemoteAddr)
		api.ServeHTTP(w, req)
	}))
}
