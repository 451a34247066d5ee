package patterns

// Field keys written by the phone-issue processor.
const (
	FieldName                 = "name"
	FieldPhoneAffected        = "phoneAffected"
	FieldLocation             = "location"
	FieldTroubleshootingPhone = "troubleshootingPhone"
	FieldEmail                = "email"
	FieldAgency               = "agency"
	FieldIssueDescription     = "issueDescription"
	FieldTroubleshootingSteps = "troubleshootingSteps"
	FieldUsersAffected        = "usersAffected"
)

// Additional field keys written by the escalation processor.
const (
	FieldPhone            = "phone"
	FieldBuilding         = "building"
	FieldRoomCube         = "roomCube"
	FieldWorkHours        = "workHours"
	FieldComputerName     = "computerName"
	FieldIPAddress        = "ipAddress"
	FieldCriticalDeadline = "criticalDeadline"
	FieldProblemDetails   = "problemDetails"
	FieldEscalationReason = "escalationReason"
)

// Phone-issue rule keys.
const (
	RuleName                 = "name"
	RulePhoneNumbers         = "phoneNumbers"
	RuleLocation             = "location"
	RuleTroubleshootingPhone = "troubleshootingPhone"
	RuleGenericPhone         = "genericPhone"
	RuleEmail                = "email"
	RuleIssueDescription     = "issueDescription"
	RuleTroubleshootingSteps = "troubleshootingSteps"
	RuleUsersAffected        = "usersAffected"
	RuleAccountAgency        = "accountAgency"
	RuleAgency               = "agency"
)

// Escalation rule keys not shared with the phone-issue set.
const (
	RuleNameReversed     = "nameReversed"
	RuleAccountName      = "accountName"
	RulePeoplePhone      = "peoplePhone"
	RuleBestPhone        = "bestPhone"
	RuleSite             = "site"
	RuleWorkFromHome     = "workFromHome"
	RuleNotesAddress     = "notesAddress"
	RulePeopleAddress    = "peopleAddress"
	RuleReason           = "reason"
	RuleWorkHours        = "workHours"
	RuleRoomCube         = "roomCube"
	RuleComputerName     = "computerName"
	RuleIPAddress        = "ipAddress"
	RuleCriticalDeadline = "criticalDeadline"
	RuleProblemDetails   = "problemDetails"
)

// Capture groups of RuleNameReversed ("Last, First").
const (
	LastNameGroup  = 1
	FirstNameGroup = 2
)

// PhoneFields is the set of fields the phone-issue processor writes.
var PhoneFields = []string{
	FieldName,
	FieldPhoneAffected,
	FieldLocation,
	FieldTroubleshootingPhone,
	FieldEmail,
	FieldAgency,
	FieldIssueDescription,
	FieldTroubleshootingSteps,
	FieldUsersAffected,
}

// EscalationFields is the set of fields the escalation processor writes.
var EscalationFields = []string{
	FieldName,
	FieldPhone,
	FieldEmail,
	FieldAgency,
	FieldBuilding,
	FieldRoomCube,
	FieldWorkHours,
	FieldComputerName,
	FieldIPAddress,
	FieldCriticalDeadline,
	FieldProblemDetails,
	FieldTroubleshootingSteps,
	FieldEscalationReason,
}

var phoneRuleKeys = []string{
	RuleName,
	RulePhoneNumbers,
	RuleLocation,
	RuleTroubleshootingPhone,
	RuleGenericPhone,
	RuleEmail,
	RuleIssueDescription,
	RuleTroubleshootingSteps,
	RuleUsersAffected,
	RuleAccountAgency,
	RuleAgency,
}

var escalationRuleKeys = []string{
	RuleNameReversed,
	RuleName,
	RuleAccountName,
	RulePeoplePhone,
	RuleBestPhone,
	RuleEmail,
	RuleAccountAgency,
	RuleAgency,
	RuleSite,
	RuleWorkFromHome,
	RuleNotesAddress,
	RulePeopleAddress,
	RuleReason,
	RuleWorkHours,
	RuleRoomCube,
	RuleComputerName,
	RuleIPAddress,
	RuleCriticalDeadline,
	RuleProblemDetails,
	RuleTroubleshootingSteps,
}
