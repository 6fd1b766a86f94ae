package oracle

import "errors"

// ErrIndeterminate is returned when the CEGAR loop exceeds its iteration
// cap without converging. Corresponds to OracleIndeterminate; the driver
// treats it as UNSAT conservatively.
var ErrIndeterminate = errors.New("oracle: CEGAR loop did not converge within the iteration cap")
