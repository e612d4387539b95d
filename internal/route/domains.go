package route

// Fixed routing axes. Domains are the top level of every target path,
// kinds the second. Both are chosen by weighted voting over the
// analyzer label, the path tokens, and (for kinds) the file extension.

const (
	DomainPersonal = "Personal"
	DomainBusiness = "Business"
	DomainFinance  = "Finance"
	DomainLegal    = "Legal"
	DomainHealth   = "Health"
	DomainTravel   = "Travel"
	DomainMedia    = "Media"
	DomainArchive  = "Archive"
)

const (
	domainScoreFloor = 0.4
	kindScoreFloor   = 0.3

	defaultDomain = DomainArchive
	defaultKind   = "Documents"
)

type vote struct {
	target string
	weight float64
}

// domainLabelVotes maps analyzer labels to a domain vote.
var domainLabelVotes = map[string]vote{
	"finance":       {DomainFinance, 0.6},
	"contracts":     {DomainLegal, 0.6},
	"medical":       {DomainHealth, 0.6},
	"images":        {DomainMedia, 0.6},
	"videos":        {DomainMedia, 0.6},
	"audio":         {DomainMedia, 0.6},
	"personal":      {DomainPersonal, 0.6},
	"resumes":       {DomainBusiness, 0.5},
	"projects":      {DomainBusiness, 0.5},
	"marketing":     {DomainBusiness, 0.5},
	"presentations": {DomainBusiness, 0.5},
	"reports":       {DomainBusiness, 0.4},
	"code":          {DomainBusiness, 0.4},
	"education":     {DomainPersonal, 0.4},
	"archives":      {DomainArchive, 0.5},
	"dated_files":   {DomainArchive, 0.3},
	"empty_files":   {DomainArchive, 0.3},
	"large_files":   {DomainArchive, 0.3},
}

// domainTokenVotes maps path tokens to a domain vote.
var domainTokenVotes = map[string]vote{
	"invoice":   {DomainFinance, 0.5},
	"invoices":  {DomainFinance, 0.5},
	"tax":       {DomainFinance, 0.5},
	"taxes":     {DomainFinance, 0.5},
	"bank":      {DomainFinance, 0.4},
	"statement": {DomainFinance, 0.4},
	"receipt":   {DomainFinance, 0.4},
	"receipts":  {DomainFinance, 0.4},
	"payroll":   {DomainFinance, 0.4},
	"budget":    {DomainFinance, 0.4},
	"insurance": {DomainFinance, 0.3},

	"contract":  {DomainLegal, 0.5},
	"contracts": {DomainLegal, 0.5},
	"agreement": {DomainLegal, 0.5},
	"legal":     {DomainLegal, 0.5},
	"lease":     {DomainLegal, 0.4},

	"medical":      {DomainHealth, 0.5},
	"health":       {DomainHealth, 0.4},
	"doctor":       {DomainHealth, 0.4},
	"prescription": {DomainHealth, 0.4},
	"lab":          {DomainHealth, 0.3},

	"travel":    {DomainTravel, 0.5},
	"trip":      {DomainTravel, 0.5},
	"vacation":  {DomainTravel, 0.5},
	"flight":    {DomainTravel, 0.4},
	"hotel":     {DomainTravel, 0.4},
	"itinerary": {DomainTravel, 0.4},

	"photo":       {DomainMedia, 0.4},
	"photos":      {DomainMedia, 0.4},
	"video":       {DomainMedia, 0.4},
	"music":       {DomainMedia, 0.4},
	"screenshots": {DomainMedia, 0.3},

	"family":   {DomainPersonal, 0.4},
	"personal": {DomainPersonal, 0.5},
	"school":   {DomainPersonal, 0.3},
	"recipes":  {DomainPersonal, 0.3},

	"work":      {DomainBusiness, 0.4},
	"client":    {DomainBusiness, 0.4},
	"clients":   {DomainBusiness, 0.4},
	"project":   {DomainBusiness, 0.3},
	"projects":  {DomainBusiness, 0.3},
	"resume":    {DomainBusiness, 0.4},
	"marketing": {DomainBusiness, 0.4},
	"vendor":    {DomainBusiness, 0.3},
	"vendors":   {DomainBusiness, 0.3},
}

// kindLabelVotes maps analyzer labels to a kind vote. Labels like
// "finance" vote only weakly for a kind; tokens pick invoices vs
// statements vs receipts.
var kindLabelVotes = map[string]vote{
	"images":        {"Photos", 0.6},
	"videos":        {"Videos", 0.6},
	"audio":         {"Music", 0.6},
	"spreadsheets":  {"Spreadsheets", 0.6},
	"presentations": {"Presentations", 0.6},
	"contracts":     {"Contracts", 0.6},
	"resumes":       {"Resumes", 0.6},
	"code":          {"Code", 0.6},
	"archives":      {"Archives", 0.6},
	"logs":          {"Logs", 0.5},
	"configs":       {"Configs", 0.5},
	"reports":       {"Reports", 0.5},
	"documents":     {"Documents", 0.4},
	"finance":       {"Invoices", 0.3},
	"empty_files":   {"Empty", 0.5},
	"large_files":   {"Large", 0.5},
}

// kindTokenVotes maps path tokens to a kind vote.
var kindTokenVotes = map[string]vote{
	"invoice":    {"Invoices", 0.5},
	"invoices":   {"Invoices", 0.5},
	"statement":  {"Statements", 0.5},
	"statements": {"Statements", 0.5},
	"receipt":    {"Receipts", 0.5},
	"receipts":   {"Receipts", 0.5},
	"contract":   {"Contracts", 0.4},
	"agreement":  {"Contracts", 0.4},
	"report":     {"Reports", 0.4},
	"reports":    {"Reports", 0.4},
	"resume":     {"Resumes", 0.5},
	"cv":         {"Resumes", 0.4},
	"photo":      {"Photos", 0.3},
	"photos":     {"Photos", 0.3},
	"img":        {"Photos", 0.3},
	"screenshot": {"Photos", 0.3},
	"scan":       {"Documents", 0.2},
}

// kindExtensionVotes maps lowercased extensions to a kind vote.
var kindExtensionVotes = map[string]vote{
	".jpg": {"Photos", 0.3}, ".jpeg": {"Photos", 0.3}, ".png": {"Photos", 0.3},
	".gif": {"Photos", 0.3}, ".heic": {"Photos", 0.3}, ".tiff": {"Photos", 0.3},
	".mp4": {"Videos", 0.3}, ".mov": {"Videos", 0.3}, ".avi": {"Videos", 0.3},
	".mkv": {"Videos", 0.3},
	".mp3": {"Music", 0.3}, ".wav": {"Music", 0.3}, ".flac": {"Music", 0.3},
	".xlsx": {"Spreadsheets", 0.3}, ".xls": {"Spreadsheets", 0.3},
	".csv": {"Spreadsheets", 0.3}, ".numbers": {"Spreadsheets", 0.3},
	".pptx": {"Presentations", 0.3}, ".ppt": {"Presentations", 0.3},
	".key": {"Presentations", 0.3},
	".zip": {"Archives", 0.3}, ".tar": {"Archives", 0.3}, ".gz": {"Archives", 0.3},
	".rar": {"Archives", 0.3}, ".7z": {"Archives", 0.3},
	".go": {"Code", 0.3}, ".py": {"Code", 0.3}, ".js": {"Code", 0.3},
	".ts": {"Code", 0.3}, ".java": {"Code", 0.3}, ".rb": {"Code", 0.3},
	".c": {"Code", 0.3}, ".cpp": {"Code", 0.3}, ".rs": {"Code", 0.3},
	".log": {"Logs", 0.3},
	".pdf": {"Documents", 0.2}, ".doc": {"Documents", 0.2},
	".docx": {"Documents", 0.2}, ".txt": {"Documents", 0.2},
	".rtf": {"Documents", 0.2}, ".md": {"Documents", 0.2},
}
