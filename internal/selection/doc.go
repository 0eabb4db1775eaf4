// Package selection implements the selection store: a deduplicated,
// insertion-ordered list of absolute paths persisted across invocations.
//
// The store is two positionally parallel files, a newline-delimited path log
// and a hash index holding one SHA-256 digest per logged path, guarded by a
// lock token. Every operation that writes either file holds the lock for the
// whole write sequence and releases it on every exit path. Listing and
// validation only refuse to run while the lock is held.
//
// # Basic Usage
//
//	sel := selection.New(cfg.StatePaths(os.Getuid()),
//	    selection.WithLogger(logger),
//	    selection.WithErrorOutput(os.Stderr),
//	)
//
//	res, err := sel.Add(ctx, candidates, selection.AddOptions{})
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("%d paths added / %d paths total\n", res.Added, res.Total)
//
//	for path, err := range sel.List(selection.ListOptions{Sort: true}) {
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(path)
//	}
//
// # Consistency
//
// A path is appended to the log before its digest is appended to the index.
// A crash between the two writes leaves the log one entry longer than the
// index; the next add of that path appends it again. Replace truncates both
// files under one lock acquisition and refills them under a second, so a
// concurrent invocation may observe the empty selection in between.
package selection
