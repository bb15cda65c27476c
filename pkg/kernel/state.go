package kernel

// State is a step of the transaction flow. A transaction moves through the
// states in declaration order; each one is entered once the card accepted
// the command that leads to it.
type State int

const (
	StateIdle State = iota
	StateDirectorySelected
	StateApplicationSelected
	StateProcessingOptionsObtained
	StateRecordsRead
	StateRestrictionsChecked
	StateCVMProcessed
	StateRiskManaged
	StateActionAnalyzed
	StateCryptogramObtained
	StateOfflineAuthenticated
	StateDone
)

var stateNames = [...]string{
	StateIdle:                      "Idle",
	StateDirectorySelected:         "DirectorySelected",
	StateApplicationSelected:       "ApplicationSelected",
	StateProcessingOptionsObtained: "ProcessingOptionsObtained",
	StateRecordsRead:               "RecordsRead",
	StateRestrictionsChecked:       "RestrictionsChecked",
	StateCVMProcessed:              "CVMProcessed",
	StateRiskManaged:               "RiskManaged",
	StateActionAnalyzed:            "ActionAnalyzed",
	StateCryptogramObtained:        "CryptogramObtained",
	StateOfflineAuthenticated:      "OfflineAuthenticated",
	StateDone:                      "Done",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "Unknown"
}
