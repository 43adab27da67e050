package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/ayusman/particula/internal/config"
	"github.com/ayusman/particula/internal/formation"
	"github.com/ayusman/particula/internal/store"
)

func configCommand(configPath string, defaults bool) error {
	cfg := config.Default()
	if !defaults {
		var err error
		if cfg, err = config.Load(configPath, config.Overrides{}); err != nil {
			return err
		}
	}
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

func formationsCommand(configPath string) error {
	cfg, err := config.Load(configPath, config.Overrides{})
	if err != nil {
		return err
	}
	order := cfg.Formations.Order
	if len(order) == 0 {
		order = formation.Keys()
	}
	active := make(map[string]int)
	for i, k := range order {
		active[k] = i + 1
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tNAME\tORDER")
	for _, f := range formation.Catalogue() {
		pos := "-"
		if n, ok := active[f.Key]; ok {
			pos = fmt.Sprint(n)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", f.Key, f.Name, pos)
	}
	return w.Flush()
}

func sessionsCommand(configPath string, limit int) error {
	cfg, err := config.Load(configPath, config.Overrides{})
	if err != nil {
		return err
	}
	if _, err := os.Stat(cfg.JournalPath()); err != nil {
		return fmt.Errorf("no journal at %s", cfg.JournalPath())
	}

	st, err := store.New(cfg.JournalPath())
	if err != nil {
		return err
	}
	defer st.Close()

	sessions, err := st.Sessions().List(limit)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTARTED\tDURATION\tPARTICLES\tFORMATIONS")
	for _, s := range sessions {
		duration := "running"
		if s.EndedAt != nil {
			duration = s.EndedAt.Sub(s.StartedAt).Round(time.Second).String()
		}
		counts, err := st.Events().CountByKind(s.ID)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n",
			s.ID, s.StartedAt.Format(time.DateTime), duration, s.ParticleCount, counts["formation"])
	}
	return w.Flush()
}
