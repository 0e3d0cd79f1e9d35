package cmd

import (
	"github.com/beka-birhanu/vinom-qmaze/config"
	"github.com/beka-birhanu/vinom-qmaze/solver"
	"github.com/spf13/pflag"
)

func addMazeFlags(fs *pflag.FlagSet) {
	fs.String(config.KeyMaze, "mazeEnv.csv", "Grid source file, .csv or .xlsx")
	fs.String(config.KeyMazeName, "", "Name of the maze in shared stores (default: source file name)")
}

func addStoreFlags(fs *pflag.FlagSet) {
	fs.String(config.KeyStore, config.StoreFile, "Value table backend: file, redis or mongo")
	fs.String(config.KeyTable, "QValues.json", "Value table file of the file backend")
	addRedisFlags(fs)
	fs.String(config.KeyDBHost, "localhost", "MongoDB host")
	fs.Int(config.KeyDBPort, 27017, "MongoDB port")
	fs.String(config.KeyDBUser, "", "MongoDB user")
	fs.String(config.KeyDBName, "qmaze", "MongoDB database")
}

func addRedisFlags(fs *pflag.FlagSet) {
	fs.String(config.KeyRedisAddr, "localhost:6379", "Redis address")
	fs.Int(config.KeyRedisDB, 0, "Redis database number")
	fs.String(config.KeyRedisPrefix, "qmaze", "Prefix of the Redis keys")
}

func addSolverFlags(fs *pflag.FlagSet) {
	fs.Float64(config.KeyDiscount, solver.DefaultDiscountFactor, "Weight of a new signal in the value update")
	fs.Float64(config.KeyExploration, solver.DefaultExplorationRate, "Probability of taking the best known action")
	fs.Float64(config.KeyWinReward, solver.DefaultRewards.Win, "Reward for reaching the exit")
	fs.Float64(config.KeyWallBumpReward, solver.DefaultRewards.WallBump, "Reward per blocked direction")
	fs.Float64(config.KeyStepReward, solver.DefaultRewards.Step, "Reward per move")
	fs.Int(config.KeyMaxSteps, 0, "Stop after this many steps, 0 for no limit")
	fs.Int(config.KeyLogEvery, solver.DefaultLogEvery, "Steps between progress log lines")
	fs.Int64(config.KeySeed, 0, "Seed of the action selection, 0 for a time based one")
	fs.Int(config.KeyRunBoardTTL, 0, "Seconds before a maze's run board expires, 0 for never")
}
