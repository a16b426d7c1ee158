package router

// Route は分類先のカテゴリを表す不変の値オブジェクト。
// Name は Router 内で一意であり、下流のトピックフィルタ値としても使われる。
type Route struct {
	Name    string
	Samples []string
}

// RouteMatch は分類結果を表す
type RouteMatch struct {
	Name  string
	Score float64
}
