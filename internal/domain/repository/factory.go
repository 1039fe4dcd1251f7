package repository

// Factory describes access to repositories backed by the relational store.
type Factory interface {
	Deposits() DepositRepository
	WithdrawalDrafts() WithdrawalDraftRepository
}

// KeyValueFactory describes access to repositories backed by the key-value store.
type KeyValueFactory interface {
	Sessions() SessionRepository
	Snapshots() SnapshotRepository
}
