package main

import (
	"fmt"
	"math"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/nbodysim/internal/config"
	"github.com/san-kum/nbodysim/internal/export"
	"github.com/san-kum/nbodysim/internal/storage"
)

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tMODE\tBODIES\tTICKS\tWORKERS\tPER TICK")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%v\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Mode,
			run.Count,
			run.Ticks,
			run.Workers,
			run.PerTick,
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "run:\t%s\n", meta.ID)
	fmt.Fprintf(w, "time:\t%s\n", meta.Timestamp.Format("2006-01-02 15:04:05"))
	if meta.Preset != "" {
		fmt.Fprintf(w, "preset:\t%s\n", meta.Preset)
	}
	fmt.Fprintf(w, "mode:\t%s\n", meta.Mode)
	fmt.Fprintf(w, "workers:\t%d\n", meta.Workers)
	fmt.Fprintf(w, "bodies:\t%d\n", meta.Count)
	fmt.Fprintf(w, "ticks:\t%d\n", meta.Ticks)
	fmt.Fprintf(w, "dt:\t%g\n", meta.Dt)
	fmt.Fprintf(w, "seed:\t%d\n", meta.Seed)
	fmt.Fprintf(w, "total time:\t%v\n", meta.Elapsed)
	fmt.Fprintf(w, "avg tick:\t%v\n", meta.PerTick)
	for _, name := range sortedKeys(meta.Metrics) {
		fmt.Fprintf(w, "%s:\t%.6g\n", name, meta.Metrics[name])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if showLimit <= 0 {
		return nil
	}
	bodies, err := st.LoadBodies(meta.ID)
	if err != nil {
		return err
	}
	fmt.Println()
	return printBodies(os.Stdout, bodies, showLimit)
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	records, err := st.LoadTicks(meta.ID)
	if err != nil {
		return err
	}

	timings := make([]float64, 0, len(records))
	energy := make([]float64, 0, len(records))
	for _, r := range records {
		if r.Tick > 0 {
			timings = append(timings, float64(r.Elapsed.Nanoseconds())/1e6)
		}
		if !math.IsNaN(r.Energy) {
			energy = append(energy, r.Energy)
		}
	}

	if len(timings) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("mode: %s, bodies: %d\n", meta.Mode, meta.Count)
	fmt.Printf("ticks: %d\n\n", len(timings))

	fmt.Println(asciigraph.Plot(timings,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("tick time (ms)"),
	))

	if len(energy) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(energy,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("total energy"),
		))
	}

	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	bodies, err := st.LoadBodies(args[0])
	if err != nil {
		return err
	}

	if len(bodies) == 0 {
		return fmt.Errorf("no data to export")
	}

	return storage.EncodeBodies(os.Stdout, bodies)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	bodies, err := st.LoadBodies(args[0])
	if err != nil {
		return err
	}

	svg := export.BodiesToSVG(bodies, svgSize)
	if outFile == "" {
		_, err = fmt.Print(svg)
		return err
	}
	if err := os.WriteFile(outFile, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outFile)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tBODIES\tTICKS\tDT\tMODE")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%d\t%d\t%g\t%s\n", name, p.Count, p.Ticks, p.Dt, p.Mode)
	}
	return w.Flush()
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
