package storage

import (
	"log"
	"os"
)

// logger is used for slow-path diagnostics: invariant violations that
// should never happen given a well-formed Storage (a predicate-selected
// target that fails to delete, an adjacency index missing an entry it
// should hold) are logged here before the surrounding call moves on,
// grounded on the teacher's log.New/log.Printf usage throughout
// pkg/storage and pkg/server.
var logger = log.New(os.Stderr, "graphkit/storage: ", log.LstdFlags)
