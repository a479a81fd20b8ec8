package app

// MinPlayersToStartGame defines the number of occupied seats required to start a game.
// Empty seats are filled with bots when bots are enabled.
const MinPlayersToStartGame = 4

// KindSpades is the game-type tag of classic 4-player partnership Spades.
const KindSpades GameKind = "spades"
