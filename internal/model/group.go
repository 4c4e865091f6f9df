package model

// Group type strings that receive new node names during a merge.
// Speedtest groups are the ones the client probes automatically; manual
// groups are picked by the user.
const (
	GroupSelect      = "select"
	GroupURLTest     = "url-test"
	GroupFallback    = "fallback"
	GroupLoadBalance = "load-balance"
)

// Sentinel member names that are never proxies and must survive a
// single-node rewrite.
var SentinelMembers = []string{"DIRECT", "REJECT", "PASS"}

func SpeedtestEligible(groupType string) bool {
	switch groupType {
	case GroupURLTest, GroupFallback, GroupLoadBalance:
		return true
	}
	return false
}

func ManualEligible(groupType string) bool {
	return groupType == GroupSelect
}
