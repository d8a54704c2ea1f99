// meta/meta.go
package meta

// CATALOG_SIZE defines the number of characters sampled for a standard game.
const CATALOG_SIZE = 12

// SEARCH_CATALOG_SIZE defines the pool size used when a tree search agent plays.
const SEARCH_CATALOG_SIZE = 8

// GAMES defines the number of games per match up.
const GAMES = 100

// TIE is the winner reported when neither player wins.
const TIE = "tie"
