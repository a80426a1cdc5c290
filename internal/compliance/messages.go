package compliance

import (
	"fmt"

	"ftl_checker/internal/duty"
)

// Status classifies an evaluated day, ordered by severity.
type Status string

const (
	StatusLegal   Status = "LEGAL"
	StatusWarning Status = "WARNING"
	StatusIllegal Status = "ILLEGAL"
)

// rank orders statuses for the monotonic severity policy: once a day is
// ILLEGAL no later check may downgrade it.
func rank(s Status) int {
	switch s {
	case StatusIllegal:
		return 2
	case StatusWarning:
		return 1
	default:
		return 0
	}
}

// IssueType identifies a rule trigger machine-readably.
type IssueType string

const (
	IssueFDPExceeded         IssueType = "FDP_EXCEEDED"
	IssueFDPExtension        IssueType = "FDP_EXTENSION_REQUIRED"
	IssueFDPCloseToLimit     IssueType = "FDP_CLOSE_TO_LIMIT"
	IssueRestInsufficient    IssueType = "REST_INSUFFICIENT"
	IssueDailyFlightTime     IssueType = "DAILY_FLIGHT_TIME_EXCEEDED"
	IssueWeeklyFlightTime    IssueType = "WEEKLY_FLIGHT_TIME_EXCEEDED"
	IssueMonthlyFlightTime   IssueType = "MONTHLY_FLIGHT_TIME_EXCEEDED"
	IssueYearlyFlightTime    IssueType = "YEARLY_FLIGHT_TIME_EXCEEDED"
	IssueWeeklyDutyTime      IssueType = "WEEKLY_DUTY_TIME_EXCEEDED"
	IssueFortnightlyDutyTime IssueType = "FORTNIGHTLY_DUTY_TIME_EXCEEDED"
	IssueHighFatigueRisk     IssueType = "HIGH_FATIGUE_RISK"
	IssueConsecutiveDuties   IssueType = "CONSECUTIVE_DUTY_LIMIT_EXCEEDED"
	IssueNightDuty           IssueType = "NIGHT_DUTY"
	IssueHighSectorCount     IssueType = "HIGH_SECTOR_COUNT"
)

// Issue is one explained rule trigger. Explanatory fields never gate the day
// status on their own; Severity does.
type Issue struct {
	Type           IssueType `json:"type"`
	Message        string    `json:"message"`
	Regulation     string    `json:"regulation"`
	Severity       Status    `json:"severity"`
	FatigueRisk    string    `json:"fatigue_risk"`
	Recommendation string    `json:"recommendation"`
}

// template holds the language-independent parts of an issue plus per-field
// text. Message strings take fmt verbs for the actual/limit values.
type template struct {
	message        string
	regulation     string
	severity       Status
	fatigueRisk    string
	recommendation string
}

// catalogs hold the per-language issue text. Language selects text only,
// never rule logic; unknown languages fall back to English.
var catalogs = map[string]map[IssueType]template{
	"en": {
		IssueFDPExceeded: {
			message:        "Flight duty period %s exceeds the maximum of %s even with the 1-hour extension",
			regulation:     "ORO.FTL.205(d)",
			severity:       StatusIllegal,
			fatigueRisk:    "Duty length beyond the extended ceiling sharply increases the probability of fatigue-related error.",
			recommendation: "Reassign the trailing sectors or position a relief crew.",
		},
		IssueFDPExtension: {
			message:        "Flight duty period %s exceeds the maximum of %s; a commander's discretion extension is required",
			regulation:     "ORO.FTL.205(f)",
			severity:       StatusWarning,
			fatigueRisk:    "Operating inside the extension allowance erodes the fatigue margin built into the base limit.",
			recommendation: "Record the extension and plan extended rest afterwards.",
		},
		IssueFDPCloseToLimit: {
			message:        "Flight duty period %s is within 30 minutes of the maximum %s",
			regulation:     "ORO.FTL.205(b)",
			severity:       StatusWarning,
			fatigueRisk:    "Plans this close to the ceiling leave no buffer for routine delays.",
			recommendation: "Brief the crew on the limit and prepare a contingency for delay.",
		},
		IssueRestInsufficient: {
			message:        "Rest period %s is below the required minimum of %s",
			regulation:     "ORO.FTL.235",
			severity:       StatusIllegal,
			fatigueRisk:    "Shortened rest prevents full sleep recovery and compounds across consecutive duties.",
			recommendation: "Delay the report time until the minimum rest is satisfied.",
		},
		IssueDailyFlightTime: {
			message:        "Daily flight time %s exceeds the limit of %s",
			regulation:     "ORO.FTL.210(a)",
			severity:       StatusIllegal,
			fatigueRisk:    "Excess stick time in one duty concentrates workload without recovery breaks.",
			recommendation: "Split the rotation across two duty days.",
		},
		IssueWeeklyFlightTime: {
			message:        "Flight time %s in the trailing 7 days exceeds the limit of %s",
			regulation:     "ORO.FTL.210(a)(1)",
			severity:       StatusIllegal,
			fatigueRisk:    "Cumulative weekly flying above the cap outpaces normal sleep recovery.",
			recommendation: "Roster a day off before further flying duties.",
		},
		IssueMonthlyFlightTime: {
			message:        "Flight time %s in the calendar month exceeds the limit of %s",
			regulation:     "ORO.FTL.210(a)(2)",
			severity:       StatusIllegal,
			fatigueRisk:    "Monthly totals above the cap indicate sustained over-scheduling.",
			recommendation: "Remove this crew member from remaining flying duties this month.",
		},
		IssueYearlyFlightTime: {
			message:        "Flight time %s in the calendar year exceeds the limit of %s",
			regulation:     "ORO.FTL.210(a)(3)",
			severity:       StatusIllegal,
			fatigueRisk:    "Annual totals above the cap exceed the assumptions of the fatigue model entirely.",
			recommendation: "Ground the crew member for the remainder of the calendar year.",
		},
		IssueWeeklyDutyTime: {
			message:        "Duty time %s in the trailing 7 days exceeds the limit of %s",
			regulation:     "ORO.FTL.190(b)(1)",
			severity:       StatusIllegal,
			fatigueRisk:    "Total duty hours, including standby waiting, drive cumulative fatigue as much as flying.",
			recommendation: "Insert a full rest day into the coming roster week.",
		},
		IssueFortnightlyDutyTime: {
			message:        "Duty time %s in the trailing 14 days exceeds the limit of %s",
			regulation:     "ORO.FTL.190(b)(2)",
			severity:       StatusIllegal,
			fatigueRisk:    "Fortnight-scale overload indicates a structural rostering problem, not a one-off.",
			recommendation: "Rebalance the roster pattern across the crew pool.",
		},
		IssueHighFatigueRisk: {
			message:        "Combined fatigue score %s meets or exceeds the alerting threshold of %s",
			regulation:     "ORO.FTL.120",
			severity:       StatusWarning,
			fatigueRisk:    "Several circadian and workload factors coincide on this duty.",
			recommendation: "Consider proactive fatigue mitigation: augmented crew or duty swap.",
		},
		IssueConsecutiveDuties: {
			message:        "%s consecutive duty days exceed the recommended maximum of %s",
			regulation:     "ORO.FTL.190",
			severity:       StatusWarning,
			fatigueRisk:    "Sleep debt accumulates across unbroken duty blocks even when each day is legal.",
			recommendation: "Schedule a day off after at most four consecutive duties.",
		},
		IssueNightDuty: {
			message:        "Duty starts at %s, inside the night window",
			regulation:     "ORO.FTL.205(b)(2)",
			severity:       StatusWarning,
			fatigueRisk:    "Night starts cut across the circadian low where alertness bottoms out.",
			recommendation: "Protect the preceding afternoon for sleep opportunity.",
		},
		IssueHighSectorCount: {
			message:        "%s sectors in one duty meet or exceed the high-workload threshold of %s",
			regulation:     "ORO.FTL.205(b)(3)",
			severity:       StatusWarning,
			fatigueRisk:    "Each additional sector adds a descent, approach and turnaround at peak workload.",
			recommendation: "Watch for briefing shortcuts on the final sectors.",
		},
	},
	"de": {
		IssueFDPExceeded: {
			message:        "Flugdienstzeit %s überschreitet das Maximum von %s auch mit der 1-Stunden-Verlängerung",
			regulation:     "ORO.FTL.205(d)",
			severity:       StatusIllegal,
			fatigueRisk:    "Dienstzeiten jenseits der verlängerten Obergrenze erhöhen das Risiko ermüdungsbedingter Fehler deutlich.",
			recommendation: "Letzte Strecken neu besetzen oder eine Ablösecrew einplanen.",
		},
		IssueFDPExtension: {
			message:        "Flugdienstzeit %s überschreitet das Maximum von %s; eine Verlängerung nach Ermessen des Kommandanten ist erforderlich",
			regulation:     "ORO.FTL.205(f)",
			severity:       StatusWarning,
			fatigueRisk:    "Der Betrieb innerhalb der Verlängerungsmarge zehrt die eingeplante Ermüdungsreserve auf.",
			recommendation: "Verlängerung dokumentieren und anschließend verlängerte Ruhezeit einplanen.",
		},
		IssueFDPCloseToLimit: {
			message:        "Flugdienstzeit %s liegt weniger als 30 Minuten unter dem Maximum %s",
			regulation:     "ORO.FTL.205(b)",
			severity:       StatusWarning,
			fatigueRisk:    "So knappe Planung lässt keinen Puffer für alltägliche Verspätungen.",
			recommendation: "Crew über das Limit informieren und Verspätungsszenario vorbereiten.",
		},
		IssueRestInsufficient: {
			message:        "Ruhezeit %s unterschreitet das erforderliche Minimum von %s",
			regulation:     "ORO.FTL.235",
			severity:       StatusIllegal,
			fatigueRisk:    "Verkürzte Ruhe verhindert vollständige Schlaferholung und summiert sich über Folgetage.",
			recommendation: "Meldezeit verschieben, bis die Mindestruhe erfüllt ist.",
		},
		IssueDailyFlightTime: {
			message:        "Tagesflugzeit %s überschreitet das Limit von %s",
			regulation:     "ORO.FTL.210(a)",
			severity:       StatusIllegal,
			fatigueRisk:    "Zu viel Flugzeit in einem Dienst konzentriert die Belastung ohne Erholungspausen.",
			recommendation: "Umlauf auf zwei Diensttage aufteilen.",
		},
		IssueWeeklyFlightTime: {
			message:        "Flugzeit %s in den letzten 7 Tagen überschreitet das Limit von %s",
			regulation:     "ORO.FTL.210(a)(1)",
			severity:       StatusIllegal,
			fatigueRisk:    "Wochensummen über der Grenze übersteigen die normale Schlaferholung.",
			recommendation: "Vor weiteren Flugdiensten einen freien Tag einplanen.",
		},
		IssueMonthlyFlightTime: {
			message:        "Flugzeit %s im Kalendermonat überschreitet das Limit von %s",
			regulation:     "ORO.FTL.210(a)(2)",
			severity:       StatusIllegal,
			fatigueRisk:    "Monatssummen über der Grenze deuten auf anhaltende Überplanung hin.",
			recommendation: "Crewmitglied für den Rest des Monats aus Flugdiensten nehmen.",
		},
		IssueYearlyFlightTime: {
			message:        "Flugzeit %s im Kalenderjahr überschreitet das Limit von %s",
			regulation:     "ORO.FTL.210(a)(3)",
			severity:       StatusIllegal,
			fatigueRisk:    "Jahressummen über der Grenze liegen außerhalb der Annahmen des Ermüdungsmodells.",
			recommendation: "Crewmitglied für den Rest des Kalenderjahres nicht mehr einsetzen.",
		},
		IssueWeeklyDutyTime: {
			message:        "Dienstzeit %s in den letzten 7 Tagen überschreitet das Limit von %s",
			regulation:     "ORO.FTL.190(b)(1)",
			severity:       StatusIllegal,
			fatigueRisk:    "Gesamtdienstzeit einschließlich Bereitschaft treibt die Ermüdung ebenso wie Flugzeit.",
			recommendation: "Einen vollen Ruhetag in die kommende Woche einplanen.",
		},
		IssueFortnightlyDutyTime: {
			message:        "Dienstzeit %s in den letzten 14 Tagen überschreitet das Limit von %s",
			regulation:     "ORO.FTL.190(b)(2)",
			severity:       StatusIllegal,
			fatigueRisk:    "Überlastung über zwei Wochen zeigt ein strukturelles Planungsproblem.",
			recommendation: "Dienstplanmuster über den Crewpool neu verteilen.",
		},
		IssueHighFatigueRisk: {
			message:        "Kombinierter Ermüdungswert %s erreicht oder überschreitet die Warnschwelle von %s",
			regulation:     "ORO.FTL.120",
			severity:       StatusWarning,
			fatigueRisk:    "Mehrere zirkadiane und Belastungsfaktoren treffen in diesem Dienst zusammen.",
			recommendation: "Proaktive Ermüdungsmaßnahmen erwägen: verstärkte Crew oder Diensttausch.",
		},
		IssueConsecutiveDuties: {
			message:        "%s aufeinanderfolgende Diensttage überschreiten das empfohlene Maximum von %s",
			regulation:     "ORO.FTL.190",
			severity:       StatusWarning,
			fatigueRisk:    "Schlafdefizit baut sich über ununterbrochene Dienstblöcke auf, auch wenn jeder Tag legal ist.",
			recommendation: "Nach spätestens vier Diensten in Folge einen freien Tag einplanen.",
		},
		IssueNightDuty: {
			message:        "Dienstbeginn um %s liegt im Nachtfenster",
			regulation:     "ORO.FTL.205(b)(2)",
			severity:       StatusWarning,
			fatigueRisk:    "Nachtbeginn fällt in das zirkadiane Tief mit minimaler Wachheit.",
			recommendation: "Den vorangehenden Nachmittag für Schlaf freihalten.",
		},
		IssueHighSectorCount: {
			message:        "%s Strecken in einem Dienst erreichen oder überschreiten die Belastungsschwelle von %s",
			regulation:     "ORO.FTL.205(b)(3)",
			severity:       StatusWarning,
			fatigueRisk:    "Jede zusätzliche Strecke bedeutet Anflug, Landung und Turnaround bei Spitzenbelastung.",
			recommendation: "Auf verkürzte Briefings bei den letzten Strecken achten.",
		},
	},
}

// DefaultLanguage is used when the requested catalog does not exist.
const DefaultLanguage = "en"

// newIssue renders an issue from the catalog, falling back to English for
// unknown languages.
func newIssue(lang string, typ IssueType, args ...interface{}) Issue {
	catalog, ok := catalogs[lang]
	if !ok {
		catalog = catalogs[DefaultLanguage]
	}
	tpl, ok := catalog[typ]
	if !ok {
		tpl = catalogs[DefaultLanguage][typ]
	}
	return Issue{
		Type:           typ,
		Message:        fmt.Sprintf(tpl.message, args...),
		Regulation:     tpl.regulation,
		Severity:       tpl.severity,
		FatigueRisk:    tpl.fatigueRisk,
		Recommendation: tpl.recommendation,
	}
}

// regulationRefs lists the informational references shown per duty type.
var regulationRefs = map[duty.Type][]string{
	duty.Flight:   {"ORO.FTL.205 Flight duty period", "ORO.FTL.210 Flight times and duty periods", "ORO.FTL.235 Rest periods"},
	duty.Standby:  {"ORO.FTL.225 Standby", "ORO.FTL.235 Rest periods"},
	duty.Training: {"ORO.FTL.190 Cumulative duty periods"},
	duty.Admin:    {"ORO.FTL.190 Cumulative duty periods"},
	duty.DayOff:   {"ORO.FTL.235(d) Recurrent extended recovery rest"},
}
