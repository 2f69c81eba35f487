package taxonomy

// DefaultStopwords are nouns too generic to be useful as keywords. Callers
// may extend this list per request; they cannot shrink it.
var DefaultStopwords = []string{
	"영상",
	"댓글",
	"유튜브",
	"뉴스",
	"기자",
	"오늘",
	"지금",
	"정말",
	"진짜",
	"너무",
	"그냥",
	"우리",
	"사람",
	"생각",
	"때문",
	"이번",
	"하나",
	"모두",
	"정도",
	"얘기",
	"말씀",
	"부분",
	"경우",
	"이거",
	"저거",
	"그거",
}
