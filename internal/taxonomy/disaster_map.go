package taxonomy

// DisasterSynonyms maps each disaster category to the substrings that signal
// it inside free text. Entries are matched verbatim (no casing or spacing
// normalization); keep them in the surface form comments actually use.
var DisasterSynonyms = map[string][]string{
	"지진": {
		"지진",
		"여진",
		"진도",
		"흔들림",
		"내진",
	},
	"홍수": {
		"홍수",
		"폭우",
		"침수",
		"범람",
		"호우",
		"물난리",
	},
	"태풍": {
		"태풍",
		"강풍",
		"풍랑",
		"폭풍",
	},
	"산불": {
		"산불",
		"들불",
		"화재",
		"불길",
	},
	"폭염": {
		"폭염",
		"무더위",
		"열대야",
		"찜통더위",
	},
	"폭설": {
		"폭설",
		"대설",
		"한파",
		"빙판",
		"눈사태",
	},
	"가뭄": {
		"가뭄",
		"물부족",
		"갈수기",
	},
	"산사태": {
		"산사태",
		"토사",
		"매몰",
		"붕괴",
	},
}
