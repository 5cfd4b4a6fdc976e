package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/gridmap/internal/editor"
	"github.com/vovakirdan/gridmap/internal/formats"
	"github.com/vovakirdan/gridmap/internal/grid"
	"github.com/vovakirdan/gridmap/internal/platform/tui"
	"github.com/vovakirdan/gridmap/internal/storage"
)

var flagRevision int

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Manage the map library",
	Long: `The library keeps named maps in a SQLite database together with every
revision saved under each name.

Without a subcommand, opens the interactive browser.`,
	Args: cobra.NoArgs,
	Run:  runLibraryBrowse,
}

var libraryBrowseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse stored maps and edit one",
	Args:  cobra.NoArgs,
	Run:   runLibraryBrowse,
}

var libraryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored maps",
	Args:  cobra.NoArgs,
	Run:   runLibraryList,
}

var librarySaveCmd = &cobra.Command{
	Use:   "save <name> <file>",
	Short: "Store a map file under a name",
	Args:  cobra.ExactArgs(2),
	Run:   runLibrarySave,
}

var libraryLoadCmd = &cobra.Command{
	Use:   "load <name> <file>",
	Short: "Write a stored map to a file",
	Args:  cobra.ExactArgs(2),
	Run:   runLibraryLoad,
}

var libraryRmCmd = &cobra.Command{
	Use:   "rm <name>",
	Short: "Delete a map and its history",
	Args:  cobra.ExactArgs(1),
	Run:   runLibraryRm,
}

var libraryHistoryCmd = &cobra.Command{
	Use:   "history <name>",
	Short: "List the revisions of a map",
	Args:  cobra.ExactArgs(1),
	Run:   runLibraryHistory,
}

func init() {
	libraryLoadCmd.Flags().IntVar(&flagRevision, "revision", 0, "Revision to load (default latest)")
	libraryLoadCmd.Flags().BoolVar(&flagForce, "force", false, "Overwrite an existing file")

	libraryCmd.AddCommand(libraryBrowseCmd)
	libraryCmd.AddCommand(libraryListCmd)
	libraryCmd.AddCommand(librarySaveCmd)
	libraryCmd.AddCommand(libraryLoadCmd)
	libraryCmd.AddCommand(libraryRmCmd)
	libraryCmd.AddCommand(libraryHistoryCmd)
}

func openStore() *storage.Store {
	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		fail("opening library: %v", err)
	}
	return store
}

func runLibraryList(cmd *cobra.Command, _ []string) {
	store := openStore()
	defer store.Close()

	maps, err := store.ListMaps(cmd.Context())
	if err != nil {
		fail("%v", err)
	}
	if len(maps) == 0 {
		fmt.Println("No maps stored yet.")
		return
	}

	fmt.Printf("%-24s %-9s %6s %5s  %s\n", "NAME", "SIZE", "WALLS", "REV", "UPDATED")
	for _, e := range maps {
		fmt.Printf("%-24s %-9s %6d %5d  %s\n",
			e.Name,
			fmt.Sprintf("%dx%d", e.Width, e.Height),
			e.Walls,
			e.Revision,
			e.UpdatedAt.Local().Format("2006-01-02 15:04"),
		)
	}
}

func runLibrarySave(cmd *cobra.Command, args []string) {
	name, path := args[0], args[1]
	m, err := formats.Load(cmd.Context(), path, cfg.Map.StrictLoad)
	if err != nil {
		fail("%v", err)
	}

	store := openStore()
	defer store.Close()

	entry, err := store.SaveMap(cmd.Context(), name, m)
	if err != nil {
		fail("%v", err)
	}
	fmt.Printf("Saved %s revision %d (%s)\n", entry.Name, entry.Revision, m)
}

func runLibraryLoad(cmd *cobra.Command, args []string) {
	name, path := args[0], withDefaultExt(args[1])
	if fileExists(path) && !flagForce {
		fail("%s already exists (use --force to overwrite)", path)
	}

	store := openStore()
	defer store.Close()

	m, err := loadStored(cmd, store, name, flagRevision)
	if err != nil {
		fail("%v", err)
	}

	if err := formats.Save(cmd.Context(), path, m); err != nil {
		fail("%v", err)
	}
	fmt.Printf("Wrote %s to %s\n", name, path)
}

// loadStored returns the given revision of a stored map, or the latest when
// revision is 0.
func loadStored(cmd *cobra.Command, store *storage.Store, name string, revision int) (*grid.Map, error) {
	if revision > 0 {
		return store.LoadRevision(cmd.Context(), name, revision, cfg.Map.StrictLoad)
	}
	m, _, err := store.LoadMap(cmd.Context(), name, cfg.Map.StrictLoad)
	return m, err
}

func runLibraryRm(cmd *cobra.Command, args []string) {
	store := openStore()
	defer store.Close()

	if err := store.DeleteMap(cmd.Context(), args[0]); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			fail("no map named %q", args[0])
		}
		fail("%v", err)
	}
	fmt.Printf("Deleted %s\n", args[0])
}

func runLibraryHistory(cmd *cobra.Command, args []string) {
	store := openStore()
	defer store.Close()

	revs, err := store.History(cmd.Context(), args[0])
	if err != nil {
		fail("%v", err)
	}
	if len(revs) == 0 {
		fail("no map named %q", args[0])
	}

	fmt.Printf("%5s %6s  %s\n", "REV", "WALLS", "SAVED")
	for _, r := range revs {
		fmt.Printf("%5d %6d  %s\n", r.Number, r.Walls, r.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	}
}

// runLibraryBrowse opens the browser, then edits the chosen map. Edits are
// stored back as a new revision when the editor closes.
func runLibraryBrowse(cmd *cobra.Command, _ []string) {
	store := openStore()
	defer store.Close()

	rc := terminalSize()
	name, err := tui.RunLibrary(cmd.Context(), store, rc.ScreenW, rc.ScreenH)
	if err != nil {
		fail("%v", err)
	}
	if name == "" {
		return
	}

	m, err := loadStored(cmd, store, name, 0)
	if err != nil {
		fail("%v", err)
	}
	session := editor.NewSession(m, editor.Options{StrictLoad: cfg.Map.StrictLoad})

	if err := tui.Run(cmd.Context(), session, tui.Options{
		Config:  cfg,
		Mode:    tui.ModeEdit,
		Runtime: terminalSize(),
	}); err != nil {
		fail("%v", err)
	}

	if !session.Dirty() {
		return
	}
	entry, err := store.SaveMap(cmd.Context(), name, session.Map())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: edits not stored: %v\n", err)
		os.Exit(1)
	}
	log.Info("stored edits", "map", name, "revision", entry.Revision)
}
