// Package airports provides a static IATA airport code to time zone lookup.
package airports

// DefaultZone is used when an airport code is unknown and the caller
// supplies no fallback of its own.
const DefaultZone = "Europe/Vienna"

// timezones maps 3-letter IATA codes to IANA time zone names. The table
// covers the network a typical European operator's rosters touch; unknown
// codes fall back to the caller's default.
var timezones = map[string]string{
	// Austria / Germany / Switzerland
	"VIE": "Europe/Vienna",
	"SZG": "Europe/Vienna",
	"GRZ": "Europe/Vienna",
	"INN": "Europe/Vienna",
	"LNZ": "Europe/Vienna",
	"KLU": "Europe/Vienna",
	"FRA": "Europe/Berlin",
	"MUC": "Europe/Berlin",
	"DUS": "Europe/Berlin",
	"TXL": "Europe/Berlin",
	"BER": "Europe/Berlin",
	"HAM": "Europe/Berlin",
	"STR": "Europe/Berlin",
	"CGN": "Europe/Berlin",
	"LEJ": "Europe/Berlin",
	"NUE": "Europe/Berlin",
	"ZRH": "Europe/Zurich",
	"GVA": "Europe/Zurich",
	"BSL": "Europe/Zurich",

	// Western Europe
	"LHR": "Europe/London",
	"LGW": "Europe/London",
	"STN": "Europe/London",
	"LTN": "Europe/London",
	"MAN": "Europe/London",
	"EDI": "Europe/London",
	"BHX": "Europe/London",
	"DUB": "Europe/Dublin",
	"CDG": "Europe/Paris",
	"ORY": "Europe/Paris",
	"NCE": "Europe/Paris",
	"LYS": "Europe/Paris",
	"AMS": "Europe/Amsterdam",
	"BRU": "Europe/Brussels",
	"LUX": "Europe/Luxembourg",
	"MAD": "Europe/Madrid",
	"BCN": "Europe/Madrid",
	"PMI": "Europe/Madrid",
	"AGP": "Europe/Madrid",
	"IBZ": "Europe/Madrid",
	"LIS": "Europe/Lisbon",
	"OPO": "Europe/Lisbon",
	"FAO": "Europe/Lisbon",
	"FCO": "Europe/Rome",
	"MXP": "Europe/Rome",
	"LIN": "Europe/Rome",
	"VCE": "Europe/Rome",
	"BLQ": "Europe/Rome",
	"NAP": "Europe/Rome",
	"CTA": "Europe/Rome",

	// Northern Europe
	"CPH": "Europe/Copenhagen",
	"OSL": "Europe/Oslo",
	"ARN": "Europe/Stockholm",
	"GOT": "Europe/Stockholm",
	"HEL": "Europe/Helsinki",
	"RIX": "Europe/Riga",
	"TLL": "Europe/Tallinn",
	"VNO": "Europe/Vilnius",
	"KEF": "Atlantic/Reykjavik",

	// Central / Eastern Europe
	"PRG": "Europe/Prague",
	"BTS": "Europe/Bratislava",
	"BUD": "Europe/Budapest",
	"WAW": "Europe/Warsaw",
	"KRK": "Europe/Warsaw",
	"GDN": "Europe/Warsaw",
	"OTP": "Europe/Bucharest",
	"CLJ": "Europe/Bucharest",
	"SOF": "Europe/Sofia",
	"BEG": "Europe/Belgrade",
	"ZAG": "Europe/Zagreb",
	"SPU": "Europe/Zagreb",
	"DBV": "Europe/Zagreb",
	"LJU": "Europe/Ljubljana",
	"SJJ": "Europe/Sarajevo",
	"SKP": "Europe/Skopje",
	"TIA": "Europe/Tirane",
	"PRN": "Europe/Belgrade",
	"RMO": "Europe/Chisinau",
	"KIV": "Europe/Chisinau",
	"ATH": "Europe/Athens",
	"SKG": "Europe/Athens",
	"HER": "Europe/Athens",
	"RHO": "Europe/Athens",
	"LCA": "Asia/Nicosia",
	"IST": "Europe/Istanbul",
	"SAW": "Europe/Istanbul",
	"AYT": "Europe/Istanbul",
	"ESB": "Europe/Istanbul",
	"KBP": "Europe/Kyiv",
	"ODS": "Europe/Kyiv",
	"LWO": "Europe/Kyiv",

	// Middle East / North Africa
	"TLV": "Asia/Jerusalem",
	"AMM": "Asia/Amman",
	"BEY": "Asia/Beirut",
	"CAI": "Africa/Cairo",
	"HRG": "Africa/Cairo",
	"SSH": "Africa/Cairo",
	"RAK": "Africa/Casablanca",
	"CMN": "Africa/Casablanca",
	"TUN": "Africa/Tunis",
	"DXB": "Asia/Dubai",
	"AUH": "Asia/Dubai",
	"DOH": "Asia/Qatar",
	"RUH": "Asia/Riyadh",
	"JED": "Asia/Riyadh",
	"TBS": "Asia/Tbilisi",
	"EVN": "Asia/Yerevan",
	"GYD": "Asia/Baku",

	// Long haul
	"JFK": "America/New_York",
	"EWR": "America/New_York",
	"IAD": "America/New_York",
	"BOS": "America/New_York",
	"YYZ": "America/Toronto",
	"YUL": "America/Toronto",
	"ORD": "America/Chicago",
	"MIA": "America/New_York",
	"LAX": "America/Los_Angeles",
	"SFO": "America/Los_Angeles",
	"NRT": "Asia/Tokyo",
	"HND": "Asia/Tokyo",
	"PEK": "Asia/Shanghai",
	"PVG": "Asia/Shanghai",
	"HKG": "Asia/Hong_Kong",
	"SIN": "Asia/Singapore",
	"BKK": "Asia/Bangkok",
	"DEL": "Asia/Kolkata",
	"BOM": "Asia/Kolkata",
	"MLE": "Indian/Maldives",
	"MRU": "Indian/Mauritius",
	"JNB": "Africa/Johannesburg",
	"CPT": "Africa/Johannesburg",
	"NBO": "Africa/Nairobi",
	"ADD": "Africa/Addis_Ababa",
}

// Zone returns the IANA time zone for an IATA code and whether the code is
// in the table.
func Zone(code string) (string, bool) {
	tz, ok := timezones[code]
	return tz, ok
}

// ZoneOrDefault returns the zone for code, or fallback when the code is
// unknown. An empty fallback resolves to DefaultZone.
func ZoneOrDefault(code, fallback string) string {
	if tz, ok := timezones[code]; ok {
		return tz
	}
	if fallback != "" {
		return fallback
	}
	return DefaultZone
}

// Known reports whether the code exists in the lookup table.
func Known(code string) bool {
	_, ok := timezones[code]
	return ok
}
