package metrics

const (
	LabelAlgorithm = "algorithm"
	LabelRound     = "round"
	LabelStatus    = "status"
)

const (
	namespaceDCA = "dca"
)

const (
	subsystemAttack    = "attack"
	subsystemSearch    = "search"
	subsystemLastRound = "last_round"
)
