package entity

// Starter dictionaries for high-precision matching. Extendable, but the
// built-in sets are deliberately conservative: a wrong entity corrupts a
// target path, a missed one just omits a folder level.

var orgEntities = map[string]bool{
	"amazon": true, "apple": true, "irs": true, "chase": true,
	"amex": true, "american express": true,
	"bank of america": true, "bofa": true, "citi": true, "citibank": true,
	"wells fargo": true, "paypal": true, "venmo": true, "zelle": true,
	"stripe": true, "square": true,

	"google": true, "microsoft": true, "netflix": true, "spotify": true,
	"github": true, "gitlab": true, "notion": true, "slack": true,
	"zoom": true, "dropbox": true, "uber": true, "lyft": true,
	"airbnb": true,

	"home depot": true, "homedepot": true, "lowes": true, "costco": true,
	"walmart": true, "target": true, "ebay": true, "etsy": true,

	"aetna": true, "cigna": true, "bcbs": true, "blue cross": true,
	"united healthcare": true, "kaiser": true, "anthem": true,

	"comcast": true, "xfinity": true, "verizon": true, "att": true,
	"tmobile": true, "sprint": true, "geico": true, "state farm": true,
	"allstate": true, "progressive": true,
}

var personEntities = map[string]bool{
	"farah": true, "leo": true,
	"client a": true, "client b": true, "clienta": true, "clientb": true,
	"project x": true, "projectx": true, "team alpha": true, "partner": true,
}

var placeEntities = map[string]bool{
	"nyc": true, "new york": true, "new york city": true,
	"manhattan": true, "brooklyn": true, "queens": true,
	"orlando": true, "miami": true, "tampa": true, "jacksonville": true,
	"chicago": true, "boston": true, "philadelphia": true, "philly": true,
	"seattle": true, "portland": true, "san francisco": true, "sf": true,
	"bay area": true, "los angeles": true, "la": true, "san diego": true,
	"vegas": true, "las vegas": true, "reno": true,
	"denver": true, "austin": true, "houston": true, "dallas": true,
	"atlanta": true, "charlotte": true, "nashville": true,
	"quebec": true, "montreal": true, "toronto": true, "vancouver": true,
	"italy": true, "france": true, "spain": true, "uk": true,
	"england": true, "germany": true, "japan": true, "china": true,
	"mexico": true, "canada": true,
	"trip": true, "vacation": true, "travel": true,
}

// acronymWhitelist lists short tokens allowed to survive the length
// filter, rendered all-caps during canonicalization.
var acronymWhitelist = map[string]bool{
	"irs": true, "nyc": true, "la": true, "sf": true,
	"uk": true, "us": true, "eu": true,
	"hr": true, "it": true, "pr": true, "qa": true,
}

// junkTokens never count as entities on their own.
var junkTokens = map[string]bool{
	"copy": true, "copyof": true, "copy of": true, "duplicate": true,
	"backup": true, "export": true,
	"scan": true, "scanned": true, "screenshot": true, "capture": true,

	"final": true, "draft": true, "temp": true, "temporary": true,
	"new": true, "old": true,
	"v1": true, "v2": true, "v3": true, "version": true,
	"revised": true, "updated": true,

	"misc": true, "miscellaneous": true, "untitled": true,
	"document": true, "file": true, "folder": true, "archive": true,
	"data": true, "info": true, "stuff": true,

	"desktop": true, "downloads": true, "documents": true,
	"pictures": true, "music": true, "videos": true,
	"my documents": true, "mydocuments": true,

	"jan": true, "feb": true, "mar": true, "apr": true, "may": true,
	"jun": true, "jul": true, "aug": true, "sep": true, "oct": true,
	"nov": true, "dec": true,
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true,
	"friday": true, "saturday": true, "sunday": true,
	"mon": true, "tue": true, "wed": true, "thu": true, "fri": true,

	"receipt": true, "invoice": true, "statement": true, "bill": true,
	"payment": true, "transaction": true, "report": true,
	"summary": true, "total": true,

	"img": true, "image": true, "photo": true, "pic": true,
	"video": true, "audio": true,
	"jpg": true, "png": true, "pdf": true, "doc": true,
	"docx": true, "xlsx": true,
}

// junkSuffixes are stripped from the tail of an entity during
// canonicalization ("ClientA_invoice" canonicalizes to "ClientA").
var junkSuffixes = map[string]bool{
	"copy": true, "scan": true, "final": true, "draft": true,
	"v2": true, "v3": true,
	"receipt": true, "statement": true, "invoice": true,
	"report": true, "summary": true,
	"document": true, "doc": true, "file": true,
	"backup": true, "export": true,
}
