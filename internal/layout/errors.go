package layout

import "errors"

// ErrChairsNotCreated is returned by AddTable together with the created
// table when the chair batch fails. The table is left in place.
var ErrChairsNotCreated = errors.New("table created but chairs were not")
