package news

import (
	"regexp"
	"sort"
	"strings"

	"github.com/nubro999/AutoTrading/models"
)

// maxTrending caps how many trending entries a cycle produces.
const maxTrending = 10

// coinKeywords maps each supported market to the names it appears under in
// news headlines.
var coinKeywords = map[string][]string{
	"KRW-BTC":   {"bitcoin", "btc"},
	"KRW-ETH":   {"ethereum", "eth", "ether"},
	"KRW-XRP":   {"ripple", "xrp"},
	"KRW-ADA":   {"cardano", "ada"},
	"KRW-SOL":   {"solana", "sol"},
	"KRW-DOGE":  {"dogecoin", "doge"},
	"KRW-AVAX":  {"avalanche", "avax"},
	"KRW-DOT":   {"polkadot", "dot"},
	"KRW-MATIC": {"polygon", "matic"},
	"KRW-LINK":  {"chainlink", "link"},
	"KRW-UNI":   {"uniswap", "uni"},
	"KRW-LTC":   {"litecoin", "ltc"},
	"KRW-BCH":   {"bitcoin cash", "bch"},
	"KRW-ATOM":  {"cosmos", "atom"},
	"KRW-NEAR":  {"near protocol", "near"},
}

// sentimentLexicon weights headline vocabulary by strength. Strong words
// count triple, medium double, weak single.
var sentimentLexicon = []struct {
	words  []string
	weight float64
}{
	{[]string{"surge", "soar", "rally", "boom", "breakout", "bullish", "adoption", "breakthrough"}, 0.3},
	{[]string{"rise", "gain", "increase", "growth", "positive", "up", "higher", "recover"}, 0.2},
	{[]string{"slight", "modest", "gradual", "steady"}, 0.1},
	{[]string{"crash", "plunge", "collapse", "bearish", "ban", "crackdown", "regulation", "hack"}, -0.3},
	{[]string{"fall", "drop", "decline", "down", "lower", "loss", "concern", "worry"}, -0.2},
	{[]string{"caution", "uncertainty", "volatility", "mixed"}, -0.1},
}

var wordPatterns = buildWordPatterns()

func buildWordPatterns() map[string]*regexp.Regexp {
	patterns := make(map[string]*regexp.Regexp)
	add := func(word string) {
		if _, ok := patterns[word]; !ok {
			patterns[word] = regexp.MustCompile(`\b` + regexp.QuoteMeta(word) + `\b`)
		}
	}
	for _, group := range sentimentLexicon {
		for _, w := range group.words {
			add(w)
		}
	}
	for _, keywords := range coinKeywords {
		for _, k := range keywords {
			add(k)
		}
	}
	return patterns
}

func countWord(text, word string) int {
	p, ok := wordPatterns[word]
	if !ok {
		return strings.Count(text, word)
	}
	return len(p.FindAllStringIndex(text, -1))
}

// SentimentScore rates a headline text in [-1, 1] using the lexicon.
func SentimentScore(text string) float64 {
	text = strings.ToLower(text)
	score := 0.0
	for _, group := range sentimentLexicon {
		for _, w := range group.words {
			score += float64(countWord(text, w)) * group.weight
		}
	}
	if score > 1 {
		score = 1
	}
	if score < -1 {
		score = -1
	}
	return score
}

// Mentions derives trending signals from headlines for the given symbols.
// A coin's trending score is mention_count * (1 + avg_sentiment); results
// are sorted by score descending and truncated to the top entries.
func Mentions(headlines []models.NewsHeadline, symbols []string) []models.TrendMention {
	counts := make(map[string]int)
	sentiments := make(map[string][]float64)

	for _, h := range headlines {
		text := strings.ToLower(h.Title + " " + h.Snippet)
		score := SentimentScore(text)
		for _, symbol := range symbols {
			keywords, ok := coinKeywords[symbol]
			if !ok {
				continue
			}
			mentionCount := 0
			for _, k := range keywords {
				mentionCount += countWord(text, k)
			}
			if mentionCount > 0 {
				counts[symbol] += mentionCount
				sentiments[symbol] = append(sentiments[symbol], score)
			}
		}
	}

	mentions := make([]models.TrendMention, 0, len(counts))
	for symbol, count := range counts {
		scores := sentiments[symbol]
		sum := 0.0
		for _, s := range scores {
			sum += s
		}
		avg := sum / float64(len(scores))
		mentions = append(mentions, models.TrendMention{
			Symbol:        symbol,
			MentionCount:  count,
			AvgSentiment:  avg,
			TrendingScore: float64(count) * (1 + avg),
		})
	}

	sort.Slice(mentions, func(i, j int) bool {
		if mentions[i].TrendingScore != mentions[j].TrendingScore {
			return mentions[i].TrendingScore > mentions[j].TrendingScore
		}
		return mentions[i].Symbol < mentions[j].Symbol
	})

	if len(mentions) > maxTrending {
		mentions = mentions[:maxTrending]
	}
	return mentions
}

// SupportedSymbols lists every market the keyword table covers.
func SupportedSymbols() []string {
	symbols := make([]string, 0, len(coinKeywords))
	for s := range coinKeywords {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)
	return symbols
}
