package commands

import (
	"context"
	"fmt"

	"github.com/samber/lo"
)

type GachiCommand struct {
	songs []GachiSong
}

func NewGachiCommand(songs []GachiSong) *GachiCommand {
	return &GachiCommand{songs: songs}
}

func (c *GachiCommand) Handle(ctx context.Context, cmdCtx *Context) (string, error) {
	if len(c.songs) == 0 {
		return fmt.Sprintf("%s, couldn't find a song", cmdCtx.Message.Username), nil
	}
	song := lo.Sample(c.songs)
	return fmt.Sprintf("👉 %s || %s gachiBASS", song.Title, song.URL), nil
}
