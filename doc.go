/*
go-smartcam provides the inference pipeline of a live camera object detector.

A camera Frame (packed BGRA pixels) is resized to the detector input size,
converted into an RGB InputTensor, passed to an Engine (any detector that
produces SSD style boxes, classes, scores and count tensors) and the
RawDetections it returns are decoded into a confidence sorted set of
detections in the frame's pixel space.

The root package holds the data model shared by the sub packages:

  - preprocess: frame resizing and BGRA to RGB tensor conversion
  - postprocess: decoding of RawDetections into detections
  - render: class colors and overlay geometry
  - pipeline: a single frame pass, serial worker and pools of pipelines
  - engine/tflite, engine/onnx: Engine implementations

See cmd/smartcam for a command line tool wiring all of these together.
*/
package smartcam
