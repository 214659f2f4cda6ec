// Package imsgwatch is a lightweight index for the packages in this module.
//
// This root package is documentation-only. Run the imsgwatch command or
// import specific subpackages.
//
// Available packages:
//   - github.com/spachava753/imsgwatch/cmd/imsgwatch
//     Command that prints new Messages rows as they arrive.
//   - github.com/spachava753/imsgwatch/macos/messages
//     Read-only access to ~/Library/Messages/chat.db.
//   - github.com/spachava753/imsgwatch/macos/messages/messagestest
//     Throwaway chat databases for tests.
//   - github.com/spachava753/imsgwatch/watch
//     Cursor-based poller and console output.
//
// Discovery workflow:
//   - Run: go doc github.com/spachava753/imsgwatch
//   - Then drill in with:
//     go doc github.com/spachava753/imsgwatch/watch
//     go doc github.com/spachava753/imsgwatch/macos/messages
package imsgwatch
