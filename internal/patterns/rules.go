package patterns

// Reason codes reported alongside an escalation reason.
const (
	ReasonCodeExplicit          = "explicit"
	ReasonCodeAdminPrivileges   = "admin_privileges"
	ReasonCodeNoTroubleshooting = "no_troubleshooting"
	ReasonCodeSpamCalls         = "spam_calls"
	ReasonCodeAppInstability    = "application_instability"
	ReasonCodeProblemDetails    = "problem_details"
	ReasonCodeUnknown           = "unknown"
)

const (
	defaultSiteCodePattern       = `^[A-Z0-9]{1,5}$`
	defaultPlaceholder           = "User did not provide"
	defaultWorkingFromHome       = "Working from home"
	defaultBuildingUnknown       = "Unable to determine - please check the people record"
	defaultReasonPrefix          = "Escalated due to: "
	defaultReasonUnknown         = "Reason not stated - requires manual review"
	defaultAdminPrivilegesReason = "User requires administrative privileges to install software"
)

// emailPattern is shared by both ticket types.
const emailPattern = `(?i)\bE-?mail(?:[ \t]+Address)?[ \t]*:[ \t]*([A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,})`

// DefaultDefinition returns the built-in rule set. Each call returns a fresh
// copy that the caller may modify before Compile.
func DefaultDefinition() Definition {
	return Definition{
		Strings: Strings{
			Placeholder:     defaultPlaceholder,
			WorkingFromHome: defaultWorkingFromHome,
			BuildingUnknown: defaultBuildingUnknown,
			ReasonPrefix:    defaultReasonPrefix,
			ReasonUnknown:   defaultReasonUnknown,
		},
		SiteCodePattern: defaultSiteCodePattern,
		Phone:           DefaultPhoneRules(),
		Escalation:      DefaultEscalationRules(),
		KeywordRules:    DefaultKeywordRules(),
		Templates: Templates{
			Phone:      DefaultPhoneTemplate(),
			Escalation: DefaultEscalationTemplate(),
		},
	}
}

// DefaultPhoneRules returns the phone-issue pattern set.
func DefaultPhoneRules() map[string]FieldPattern {
	return map[string]FieldPattern{
		RuleName: {
			Pattern: `(?im)^[ \t]*(?:Display[ \t]+)?Name[ \t]*:[ \t]*(.+)$`,
		},
		RulePhoneNumbers: {
			Pattern: `(?im)^[ \t]*(?:Phone|Phone[ \t]+Number|Telephone)[ \t]*:[ \t]*(\+?[\d(][\d \t().-]{5,}\d)`,
			Multi:   true,
		},
		RuleLocation: {
			Pattern: `(?im)^[ \t]*(?:Address|Location|Physical[ \t]+Address|Physical[ \t]+Location)[ \t]*:[ \t]*(.+)$`,
		},
		RuleTroubleshootingPhone: {
			Pattern: `(?im)^[ \t]*(?:Troubleshooting[ \t]+Phone(?:[ \t]+Number)?|Callback[ \t]+(?:Phone|Number)|Best[ \t]+(?:Phone|Contact)[ \t]+Number)[ \t]*:[ \t]*(.+)$`,
		},
		RuleGenericPhone: {
			Pattern: `(?im)^[ \t]*Phone(?:[ \t]+Number)?[ \t]*:[ \t]*(.+)$`,
		},
		RuleEmail: {
			Pattern: emailPattern,
		},
		RuleIssueDescription: {
			Pattern: `(?im)^[ \t]*(?:Issue[ \t]+Description|Description[ \t]+of[ \t]+(?:the[ \t]+)?Issue|Issue|Problem)[ \t]*:[ \t]*(.+)$`,
		},
		RuleTroubleshootingSteps: {
			Pattern: `(?im)^[ \t]*(?:Troubleshooting[ \t]+Steps(?:[ \t]+Taken)?|Steps[ \t]+(?:Taken|Tried))[ \t]*:[ \t]*(.+)$`,
		},
		RuleUsersAffected: {
			Pattern: `(?im)^[ \t]*(?:(?:Number[ \t]+of[ \t]+)?Users[ \t]+Affected|How[ \t]+many[ \t]+users[ \t]+(?:are[ \t]+)?affected\??)[ \t]*:[ \t]*(\d+)`,
		},
		RuleAccountAgency: {
			Pattern: `(?im)^[ \t]*Account[ \t]+Agency[ \t]*:[ \t]*(.+)$`,
		},
		RuleAgency: {
			Pattern: `(?im)^[ \t]*Agency[ \t]*:[ \t]*(.+)$`,
		},
	}
}

// DefaultEscalationRules returns the escalation pattern set. Rules prefixed
// "people" run against the people record, the rest against the notes, except
// the name chain and the email rule which start on the people record.
func DefaultEscalationRules() map[string]FieldPattern {
	const nameWords = `\pL[\pL'.-]*(?:[ \t]+\pL[\pL'.-]*)*`
	return map[string]FieldPattern{
		RuleNameReversed: {
			Pattern: `(?im)^[ \t]*Name[ \t]*:[ \t]*(` + nameWords + `)[ \t]*,[ \t]*(` + nameWords + `)[ \t]*$`,
		},
		RuleName: {
			Pattern: `(?im)^[ \t]*Name[ \t]*:[ \t]*(.+)$`,
		},
		RuleAccountName: {
			Pattern: `(?im)^[ \t]*Account[ \t]+Name[ \t]*:[ \t]*(.+)$`,
		},
		RulePeoplePhone: {
			Pattern: `(?im)^[ \t]*(?:Phone|Business[ \t]+Phone|Work[ \t]+Phone|Office[ \t]+Phone|Telephone)(?:[ \t]+Number)?[ \t]*:[ \t]*(.+)$`,
		},
		RuleBestPhone: {
			Pattern: `(?im)^[ \t]*(?:What[ \t]+is[ \t]+(?:the|your)[ \t]+)?Best[ \t]+(?:phone|contact)[ \t]+number[^:\n]*:[ \t]*(.+)$`,
		},
		RuleEmail: {
			Pattern: emailPattern,
		},
		RuleAccountAgency: {
			Pattern: `(?im)^[ \t]*Account[ \t]+Agency[ \t]*:[ \t]*(.+)$`,
		},
		RuleAgency: {
			Pattern: `(?im)^[ \t]*Agency[ \t]*:[ \t]*(.+)$`,
		},
		RuleSite: {
			Pattern: `(?im)^[ \t]*Site[ \t]*:[ \t]*(.+)$`,
		},
		RuleWorkFromHome: {
			Pattern: `(?im)^[ \t]*Are[ \t]+you[ \t]+working[ \t]+from[ \t]+home[ \t]+or[ \t]+(?:in[ \t]+)?(?:the[ \t]+)?office\??[ \t]*:?[ \t]*(.+)$`,
		},
		RuleNotesAddress: {
			Pattern: `(?im)^[ \t]*(?:Address|Location|Building[ \t]+Address|Work[ \t]+Address)[ \t]*:[ \t]*(.+)$`,
		},
		RulePeopleAddress: {
			Pattern: `(?im)^[ \t]*(?:Address|Location|Office[ \t]+Address|Street[ \t]+Address|Building)[ \t]*:[ \t]*(.+)$`,
		},
		RuleReason: {
			Pattern: `(?im)^[ \t]*Reason[ \t]+for[ \t]+escalat(?:ing|ion)[^:\n]*:[ \t]*(.+)$`,
		},
		RuleWorkHours: {
			Pattern: `(?im)^[ \t]*(?:Work(?:ing)?[ \t]+Hours|Hours[ \t]+of[ \t]+Work)[ \t]*:[ \t]*(.+)$`,
		},
		RuleRoomCube: {
			Pattern: `(?im)^[ \t]*(?:Room[ \t]*/[ \t]*Cube|Room[ \t]+or[ \t]+Cube|Room|Cube|Cubicle)(?:[ \t]+(?:Number|#))?[ \t]*:[ \t]*(.+)$`,
		},
		RuleComputerName: {
			Pattern: `(?im)^[ \t]*(?:Computer[ \t]+Name|Host[ \t]*name|Machine[ \t]+Name|PC[ \t]+Name)[ \t]*:[ \t]*(.+)$`,
		},
		RuleIPAddress: {
			Pattern: `(?im)^[ \t]*IP(?:[ \t]+Address)?[ \t]*:[ \t]*(\d{1,3}(?:\.\d{1,3}){3})`,
		},
		RuleCriticalDeadline: {
			Pattern: `(?im)^[ \t]*(?:Critical[ \t]+Deadline(?:[ \t]+Impact)?|Is[ \t]+this[ \t]+impacting[ \t]+a[ \t]+critical[ \t]+deadline\??)[ \t]*:[ \t]*(.+)$`,
		},
		RuleProblemDetails: {
			Pattern: `(?im)^[ \t]*(?:Problem[ \t]+Details|Issue[ \t]+Details|Details[ \t]+of[ \t]+(?:the[ \t]+)?Problem|Description)[ \t]*:[ \t]*(.+)$`,
		},
		RuleTroubleshootingSteps: {
			Pattern: `(?im)^[ \t]*(?:Troubleshooting[ \t]+(?:Steps(?:[ \t]+Taken)?|Performed)|Steps[ \t]+(?:Taken|Tried))[ \t]*:[ \t]*(.+)$`,
		},
	}
}

// DefaultKeywordRules returns the reason inference rules in priority order.
// Keywords are matched as case-insensitive substrings, so stems like "freez"
// cover several word forms.
func DefaultKeywordRules() []KeywordRule {
	return []KeywordRule{
		{
			Code:   ReasonCodeAdminPrivileges,
			Reason: defaultAdminPrivilegesReason,
			Keywords: []string{
				"admin privileges", "administrator privileges", "administrative privileges",
				"admin rights", "administrator rights", "administrative rights",
				"admin access", "elevated privileges", "local admin",
				"install software", "software install", "software installation",
			},
		},
		{
			Code:   ReasonCodeNoTroubleshooting,
			Reason: "No troubleshooting could be performed with the user",
			Keywords: []string{
				"no troubleshooting", "not troubleshoot", "unable to troubleshoot",
				"could not troubleshoot", "couldn't troubleshoot", "declined troubleshooting",
				"refused troubleshooting", "no steps taken", "none performed",
			},
		},
		{
			Code:   ReasonCodeSpamCalls,
			Reason: "User is receiving spam calls",
			Keywords: []string{
				"spam", "robocall", "scam call", "unwanted call", "telemarket",
			},
		},
		{
			Code:   ReasonCodeAppInstability,
			Reason: "Application is unstable and keeps crashing or freezing",
			Keywords: []string{
				"crash", "freez", "frozen", "hangs", "hanging",
				"not responding", "unresponsive",
			},
		},
	}
}

// DefaultPhoneTemplate returns the 9-line phone-issue output template.
func DefaultPhoneTemplate() []TemplateField {
	return []TemplateField{
		{Label: "Name", Field: FieldName},
		{Label: "Phone Number Affected", Field: FieldPhoneAffected},
		{Label: "Location", Field: FieldLocation},
		{Label: "Troubleshooting Phone", Field: FieldTroubleshootingPhone},
		{Label: "Email", Field: FieldEmail},
		{Label: "Agency", Field: FieldAgency},
		{Label: "Issue Description", Field: FieldIssueDescription},
		{Label: "Troubleshooting Steps Taken", Field: FieldTroubleshootingSteps},
		{Label: "Number of Users Affected", Field: FieldUsersAffected},
	}
}

// DefaultEscalationTemplate returns the 13-line escalation output template.
func DefaultEscalationTemplate() []TemplateField {
	return []TemplateField{
		{Label: "Name", Field: FieldName},
		{Label: "Best Contact Number", Field: FieldPhone},
		{Label: "Email", Field: FieldEmail},
		{Label: "Agency", Field: FieldAgency},
		{Label: "Building/Location", Field: FieldBuilding},
		{Label: "Room/Cube", Field: FieldRoomCube},
		{Label: "Work Hours", Field: FieldWorkHours},
		{Label: "Computer Name", Field: FieldComputerName},
		{Label: "IP Address", Field: FieldIPAddress},
		{Label: "Critical Deadline Impact", Field: FieldCriticalDeadline},
		{Label: "Problem Details", Field: FieldProblemDetails},
		{Label: "Troubleshooting Steps", Field: FieldTroubleshootingSteps},
		{Label: "Reason for Escalation", Field: FieldEscalationReason},
	}
}
