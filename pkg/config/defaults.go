package config

import (
	_ "time/tzdata" // Asia/Seoul must resolve on hosts without zoneinfo
)

const defaultUserAgent = "Mozilla/5.0 (compatible; newswire/1.0; +https://github.com/joolab/newswire)"

// DefaultSources returns the embedded feed registry: domestic finance press plus
// Google News searches for outlets without a usable feed
func DefaultSources() []Source {
	return []Source{
		{ID: "HK", Name: "한국경제", URL: "https://www.hankyung.com/feed/finance"},
		{ID: "MK", Name: "매일경제", URL: "https://www.mk.co.kr/rss/50200011/"},
		{ID: "YNA", Name: "연합뉴스(경제)", URL: "https://www.yna.co.kr/rss/economy.xml"},
		{ID: "ED_STOCK", Name: "이데일리(증권)", URL: "http://rss.edaily.co.kr/stock_news.xml"},
		{ID: "ED_ECO", Name: "이데일리(경제)", URL: "http://rss.edaily.co.kr/economy_news.xml"},
		{ID: "MT", Name: "머니투데이", URL: "http://rss.mt.co.kr/mt_news.xml"},
		{ID: "ETNEWS_FIN", Name: "전자신문(금융/증권)", URL: "http://rss.etnews.co.kr/Section022.xml"},
		{ID: "GN_KR_STOCK", Name: "GoogleNews(한국증시)", URL: "https://news.google.com/rss/search?q=%ED%95%9C%EA%B5%AD+%EC%A6%9D%EC%8B%9C&hl=ko&gl=KR&ceid=KR:ko"},
		{ID: "GN_US_STOCK", Name: "GoogleNews(미국주식)", URL: "https://news.google.com/rss/search?q=%EB%AF%B8%EA%B5%AD+%EC%A3%BC%EC%8B%9D&hl=ko&gl=KR&ceid=KR:ko"},
		{ID: "GN_SEMI", Name: "GoogleNews(반도체)", URL: "https://news.google.com/rss/search?q=%EB%B0%98%EB%8F%84%EC%B2%B4+%EC%A3%BC%EA%B0%80&hl=ko&gl=KR&ceid=KR:ko"},
		{ID: "GN_BIO", Name: "GoogleNews(바이오)", URL: "https://news.google.com/rss/search?q=%EB%B0%94%EC%9D%B4%EC%98%A4+%EC%A3%BC%EC%8B%9D&hl=ko&gl=KR&ceid=KR:ko"},
		{ID: "GN_MACRO", Name: "GoogleNews(환율/금리)", URL: "https://news.google.com/rss/search?q=%ED%99%98%EC%9C%A8+%EA%B8%88%EB%A6%AC+%EC%A6%9D%EC%8B%9C&hl=ko&gl=KR&ceid=KR:ko"},
	}
}

// DefaultKeywords returns the embedded vocabulary. Order matters, hits are reported in this order.
func DefaultKeywords() []string {
	return []string{
		"호재", "악재", "실적", "어닝", "매출", "영업이익", "순이익",
		"공시", "전망", "상향", "하향", "목표가", "리포트",
		"상한가", "하한가", "급등", "급락",
		"수주", "계약", "수출", "수입",
		"인수", "합병", "M&A", "증자", "감자", "CB", "BW",
		"FDA", "임상", "허가", "승인",
		"반도체", "2차전지", "AI", "로봇", "바이오", "제약", "원전",
		"환율", "금리", "인플레", "CPI", "PPI", "FOMC", "연준",
		"코스피", "코스닥", "증시", "주가",
	}
}
