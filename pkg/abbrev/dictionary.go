package abbrev

// bankingAbbreviations maps common financial-services field abbreviations to
// their full forms. Multi-word expansions use underscores so they compose
// into snake_case names.
var bankingAbbreviations = map[string]string{
	// parties
	"cust":  "customer",
	"cstmr": "customer",
	"mbr":   "member",
	"org":   "organization",
	"corp":  "corporation",
	"emp":   "employee",
	"mgr":   "manager",
	"ben":   "beneficiary",

	// accounts and products
	"acct": "account",
	"acc":  "account",
	"prod": "product",
	"svc":  "service",
	"pol":  "policy",
	"loc":  "location",

	// money movement
	"txn":   "transaction",
	"trx":   "transaction",
	"trans": "transaction",
	"pmt":   "payment",
	"dep":   "deposit",
	"wd":    "withdrawal",
	"xfer":  "transfer",
	"mov":   "movement",
	"bal":   "balance",
	"amt":   "amount",
	"curr":  "currency",
	"ccy":   "currency",
	"int":   "interest",
	"fx":    "foreign_exchange",

	// identifiers and codes
	"id":  "identifier",
	"num": "number",
	"nbr": "number",
	"no":  "number",
	"cd":  "code",
	"ref": "reference",
	"seq": "sequence",
	"idx": "index",
	"iban": "international_bank_account_number",
	"bic":  "bank_identifier_code",
	"ssn":  "social_security_number",

	// names and contact
	"nm":    "name",
	"fname": "first_name",
	"lname": "last_name",
	"mname": "middle_name",
	"addr":  "address",
	"tel":   "telephone",
	"ph":    "phone",
	"eml":   "email",
	"ctry":  "country",
	"cty":   "city",
	"st":    "state",
	"zip":   "zip_code",

	// dates and times
	"dt":  "date",
	"tm":  "time",
	"ts":  "timestamp",
	"dob": "date_of_birth",
	"eff": "effective",
	"exp": "expiration",
	"cre": "created",
	"upd": "updated",
	"mod": "modified",

	// descriptive
	"desc": "description",
	"typ":  "type",
	"cat":  "category",
	"grp":  "group",
	"lvl":  "level",
	"qty":  "quantity",
	"pct":  "percent",
	"avg":  "average",
	"min":  "minimum",
	"max":  "maximum",
	"tot":  "total",
	"src":  "source",
	"dst":  "destination",
	"orig": "origin",
	"prev": "previous",
	"msg":  "message",
	"err":  "error",
	"val":  "value",
	"vld":  "valid",
	"actv": "active",
	"del":  "deleted",
}

// DefaultDictionary returns a copy of the built-in banking abbreviation map.
// Callers may merge their own entries before constructing an Expander.
func DefaultDictionary() map[string]string {
	out := make(map[string]string, len(bankingAbbreviations))
	for k, v := range bankingAbbreviations {
		out[k] = v
	}
	return out
}
