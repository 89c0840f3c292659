package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lirios/ostree-go/repo"
)

func rootCmd() *cobra.Command {
	var (
		repoPath string
		verbose  bool
	)

	cmd := &cobra.Command{
		Use:           "ostree-inspect",
		Short:         "Inspect local OSTree repositories",
		Long:          "Inspects refs, revisions and objects of a local OSTree repository.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			settings, err := getEnvironment()
			if err != nil {
				return err
			}
			if repoPath == "" {
				repoPath = settings.RepoPath
			}

			logger, err := buildLogger(settings.LogLevel, verbose)
			if err != nil {
				return err
			}
			repo.SetLogger(logger)
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&repoPath, "repo", "r", "", "path to the repository (default $OSTREE_INSPECT_REPO)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(
		infoCmd(&repoPath),
		refsCmd(&repoPath),
		revsCmd(&repoPath),
		logCmd(&repoPath),
		objectsCmd(&repoPath),
		pruneCmd(&repoPath),
		checkoutCmd(&repoPath),
		summaryCmd(&repoPath),
		browseCmd(&repoPath),
	)
	return cmd
}

// withRepo opens the repository, runs fn, and closes the handle.
func withRepo(path string, fn func(*repo.Repo) error) error {
	r, err := repo.Open(path)
	if err != nil {
		return err
	}
	defer r.Close()
	return fn(r)
}

func infoCmd(repoPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show repository mode and refs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(*repoPath, func(r *repo.Repo) error {
				mode, err := r.Mode()
				if err != nil {
					return err
				}
				revs, err := r.ListRevisions()
				if err != nil {
					return err
				}

				fmt.Printf("Repository: %s\n", r.Path())
				fmt.Printf("Mode: %s\n", mode)
				fmt.Printf("Refs: %d\n", len(revs))
				for ref, rev := range revs {
					fmt.Printf("  %s -> %s\n", ref, rev)
				}
				return nil
			})
		},
	}
}

func refsCmd(repoPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "refs",
		Short: "List refs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(*repoPath, func(r *repo.Repo) error {
				refs, err := r.ListRefs()
				if err != nil {
					return err
				}
				for _, ref := range refs {
					fmt.Println(ref)
				}
				return nil
			})
		},
	}
}

func revsCmd(repoPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "revs",
		Short: "List refs with the revisions they point at",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(*repoPath, func(r *repo.Repo) error {
				revs, err := r.ListRevisions()
				if err != nil {
					return err
				}
				for ref, rev := range revs {
					fmt.Printf("%s %s\n", rev, ref)
				}
				return nil
			})
		},
	}
}

func logCmd(repoPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "log REF",
		Short: "Walk the commit chain of a ref",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(*repoPath, func(r *repo.Repo) error {
				rev, err := r.ResolveRev(args[0])
				if err != nil {
					return err
				}
				for rev != "" {
					fmt.Println(rev)
					rev, err = r.ParentRev(rev)
					if err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func objectsCmd(repoPath *string) *cobra.Command {
	var maxDepth int

	cmd := &cobra.Command{
		Use:   "objects REF",
		Short: "List objects reachable from a ref",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(*repoPath, func(r *repo.Repo) error {
				rev, err := r.ResolveRev(args[0])
				if err != nil {
					return err
				}
				objects, err := r.TraverseCommit(cmd.Context(), rev, maxDepth)
				if err != nil {
					return err
				}
				for _, name := range objects {
					fmt.Println(name)
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&maxDepth, "depth", "d", 0, "number of parent commits to traverse (-1 for all)")
	return cmd
}

func pruneCmd(repoPath *string) *cobra.Command {
	var (
		dryRun   bool
		onlyRefs bool
	)

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove unreachable objects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(*repoPath, func(r *repo.Repo) error {
				res, err := r.Prune(cmd.Context(), dryRun, onlyRefs)
				if err != nil {
					return err
				}
				fmt.Printf("Total objects: %d\n", res.TotalObjects)
				if dryRun {
					fmt.Printf("Would prune: %d objects, %d bytes\n", res.PrunedObjects, res.BytesFreed)
				} else {
					fmt.Printf("Pruned: %d objects, %d bytes\n", res.PrunedObjects, res.BytesFreed)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "only report what would be removed")
	cmd.Flags().BoolVar(&onlyRefs, "only-refs", false, "only keep objects referenced by refs")
	return cmd
}

func checkoutCmd(repoPath *string) *cobra.Command {
	var subPath string

	cmd := &cobra.Command{
		Use:   "checkout REF DEST",
		Short: "Check out a tree into a directory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(*repoPath, func(r *repo.Repo) error {
				rev, err := r.ResolveRev(args[0])
				if err != nil {
					return err
				}
				return r.Checkout(cmd.Context(), rev, subPath, args[1])
			})
		},
	}

	cmd.Flags().StringVarP(&subPath, "path", "p", "/", "subtree to check out")
	return cmd
}

func summaryCmd(repoPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Regenerate the repository summary file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(*repoPath, func(r *repo.Repo) error {
				return r.RegenerateSummary(cmd.Context())
			})
		},
	}
}

func browseCmd(repoPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse refs and objects interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(*repoPath)
		},
	}
}
