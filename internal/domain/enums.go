package domain

// Channel identifies how a sale was transacted.
type Channel string

const (
	ChannelDirect      Channel = "direct"
	ChannelMarketplace Channel = "marketplace"
	ChannelOther       Channel = "other"
)

// NexusType classifies how nexus was established for a year.
type NexusType string

const (
	NexusNone     NexusType = "none"
	NexusEconomic NexusType = "economic"
	NexusPhysical NexusType = "physical"
	NexusBoth     NexusType = "both"
)

// ThresholdOperator combines the revenue and transaction-count conditions.
type ThresholdOperator string

const (
	OperatorAnd ThresholdOperator = "AND"
	OperatorOr  ThresholdOperator = "OR"
)

// Lookback strategy names as stored in jurisdiction configuration.
const (
	StrategyPreviousCalendarYear  = "previous_calendar_year"
	StrategyCurrentOrPreviousYear = "current_or_previous_calendar_year"
	StrategyRollingTwelveMonth    = "rolling_12_month"
	StrategyQuarterly             = "quarterly"
	StrategyFixedAnniversary      = "fixed_anniversary"
)

// InterestMethod selects the accrual formula.
type InterestMethod string

const (
	InterestSimple          InterestMethod = "simple"
	InterestCompoundMonthly InterestMethod = "compound_monthly"
	InterestCompoundDaily   InterestMethod = "compound_daily"
)

// PenaltyKind names a penalty as jurisdictions label them.
type PenaltyKind string

const (
	PenaltyLateFiling       PenaltyKind = "late_filing"
	PenaltyLatePayment      PenaltyKind = "late_payment"
	PenaltyNegligence       PenaltyKind = "negligence"
	PenaltyLateRegistration PenaltyKind = "late_registration"
)

// PenaltyShape is the closed set of penalty rule formulas. An unknown shape is
// a calculation failure, never a silent zero.
type PenaltyShape string

const (
	ShapeFlat              PenaltyShape = "flat"
	ShapeFlatFee           PenaltyShape = "flat_fee"
	ShapePerPeriod         PenaltyShape = "per_period"
	ShapePerDay            PenaltyShape = "per_day"
	ShapeTiered            PenaltyShape = "tiered"
	ShapeBasePlusPerPeriod PenaltyShape = "base_plus_per_period"
)

// PeriodUnit is how per-period penalties count elapsed periods.
type PeriodUnit string

const (
	PeriodMonth     PeriodUnit = "month"
	PeriodThirtyDay PeriodUnit = "thirty_day"
)

// AnalysisStatus tracks an analysis through its lifecycle.
type AnalysisStatus string

const (
	AnalysisStatusDraft     AnalysisStatus = "draft"
	AnalysisStatusRunning   AnalysisStatus = "running"
	AnalysisStatusCompleted AnalysisStatus = "completed"
	AnalysisStatusFailed    AnalysisStatus = "failed"
)

// UserRole defines the role hierarchy within a tenant.
type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleMember UserRole = "member"
)

// ValidUserRoles is the set of assignable roles.
var ValidUserRoles = map[UserRole]bool{
	RoleAdmin:  true,
	RoleMember: true,
}

// FileType represents the allowed file types for upload.
type FileType string

const (
	FileTypeXLSX FileType = "xlsx"
	FileTypeCSV  FileType = "csv"
)

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"xlsx": FileTypeXLSX,
	"csv":  FileTypeCSV,
}

// AllowedFileTypes maps FileType to its MIME content type.
var AllowedFileTypes = map[FileType]string{
	FileTypeXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	FileTypeCSV:  "text/csv",
}

// FileStatus represents the lifecycle of an uploaded file.
type FileStatus string

const (
	FileStatusPending  FileStatus = "pending"
	FileStatusUploaded FileStatus = "uploaded"
	FileStatusImported FileStatus = "imported"
	FileStatusFailed   FileStatus = "failed"
	FileStatusDeleted  FileStatus = "deleted"
)
